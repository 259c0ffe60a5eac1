package telemetry

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	report_http_request  = "http-request"
	report_http_response = "http-response"
	report_http_status   = "http-status"
)

type restyHooks struct {
	tel  API
	sent *atomic.Uint64
}

type requestKey struct{}

type requestInfo struct {
	seq     uint64
	started time.Time
}

// InstrumentResty reports the requests made by client through tel. Responses
// are paired with their request by sequence number, error statuses are reported
// as warnings.
func InstrumentResty(client *resty.Client, tel API) {
	h := restyHooks{tel: tel, sent: &atomic.Uint64{}}
	client.OnBeforeRequest(h.before)
	client.OnAfterResponse(h.after)
	client.OnError(h.failed)
}

func (h restyHooks) before(_ *resty.Client, req *resty.Request) error {
	info := requestInfo{seq: h.sent.Add(1), started: time.Now()}
	req.SetContext(context.WithValue(req.Context(), requestKey{}, info))
	h.tel.ReportDebug(report_http_request, info.seq, req.Method, req.URL)
	return nil
}

func infoOf(req *resty.Request) (uint64, string) {
	info, ok := req.Context().Value(requestKey{}).(requestInfo)
	if !ok {
		return 0, ""
	}
	return info.seq, time.Since(info.started).Round(time.Millisecond).String()
}

func (h restyHooks) after(_ *resty.Client, res *resty.Response) error {
	seq, took := infoOf(res.Request)
	h.tel.ReportDebug(report_http_response, seq, took, res.Status())
	if res.IsError() {
		h.tel.ReportWarning(report_http_status, fmt.Errorf("%s %s", res.Request.Method, res.Request.URL), res.StatusCode())
	}
	return nil
}

func (h restyHooks) failed(req *resty.Request, err error) {
	seq, took := infoOf(req)
	h.tel.ReportBroken(report_http_response, err, seq, req.Method, req.URL, took)
}
