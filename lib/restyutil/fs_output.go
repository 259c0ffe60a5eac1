package restyutil

import (
	"golfboard/internal/components/telemetry"
	"os"
	"path/filepath"
)

const report_fs_output_write = "restyutil.fs-output.write"

// FilesystemOutput writes every message to its own file in a directory.
type FilesystemOutput struct {
	directory string
	tel       telemetry.API
}

func NewFilesystemOutput(dir string, tel telemetry.API) (FilesystemOutput, error) {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir, tel: tel}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0600)
	if err != nil {
		o.tel.ReportWarning(report_fs_output_write, err, id)
	}
}
