package testutil

import (
	"context"
	"fmt"
	"io"
	"log"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type SMTPServer struct {
	Host string
	Port int
	// base url of the web api, /messages lists what was received
	WebURL string
}

// SetupSMTPServer starts a fake smtp server that keeps every mail it receives,
// the test is skipped when there is no container runtime.
func SetupSMTPServer(t *testing.T) (SMTPServer, func()) {
	container := startContainer(t, testcontainers.ContainerRequest{
		Image:        "haravich/fake-smtp-server",
		ExposedPorts: []string{"1025/tcp", "1080/tcp"},
		WaitingFor:   wait.ForLog("smtp://0.0.0.0:1025"),
	})

	ctx := context.Background()
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	smtpPort, err := container.MappedPort(ctx, "1025/tcp")
	if err != nil {
		t.Fatal(err)
	}
	webPort, err := container.MappedPort(ctx, "1080/tcp")
	if err != nil {
		t.Fatal(err)
	}

	return SMTPServer{
		Host:   host,
		Port:   smtpPort.Int(),
		WebURL: fmt.Sprintf("http://%s:%s", host, webPort.Port()),
	}, terminate(t, container)
}

// SetupHeadlessShell starts a headless chrome and returns its devtools
// websocket url.
func SetupHeadlessShell(t *testing.T) (string, func()) {
	container := startContainer(t, testcontainers.ContainerRequest{
		Image:        "chromedp/headless-shell:latest",
		ExposedPorts: []string{"9222/tcp"},
		WaitingFor:   wait.ForListeningPort("9222/tcp"),
	})

	ctx := context.Background()
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	port, err := container.MappedPort(ctx, "9222/tcp")
	if err != nil {
		t.Fatal(err)
	}
	return fmt.Sprintf("ws://%s:%s", host, port.Port()), terminate(t, container)
}

func startContainer(t *testing.T, req testcontainers.ContainerRequest) testcontainers.Container {
	testcontainers.SkipIfProviderIsNotHealthy(t)

	// suppress logging
	testcontainers.Logger = log.New(io.Discard, "", 0)

	container, err := testcontainers.GenericContainer(
		context.Background(),
		testcontainers.GenericContainerRequest{
			Started:          true,
			ContainerRequest: req,
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	return container
}

func terminate(t *testing.T, container testcontainers.Container) func() {
	return func() {
		err := container.Terminate(context.Background())
		if err != nil {
			t.Error(err)
		}
	}
}
