package sheet

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Workbook is a Sink backed by an xlsx file with a single sheet.
type Workbook struct {
	file *excelize.File
	row  int
}

func NewWorkbook() (*Workbook, error) {
	f := excelize.NewFile()
	err := f.SetSheetName(f.GetSheetName(0), Name)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Workbook{file: f}, nil
}

func (w *Workbook) AppendRow(cells ...string) error {
	w.row++
	if len(cells) == 0 {
		return nil
	}
	start, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	values := make([]any, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	return w.file.SetSheetRow(Name, start, &values)
}

// Save writes the workbook to path, creating missing parent directories.
func (w *Workbook) Save(path string) error {
	dir := filepath.Dir(path)
	if dir != "" {
		err := os.MkdirAll(dir, 0777)
		if err != nil {
			return &WriteError{Path: path, Err: err}
		}
	}
	err := w.file.SaveAs(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

func (w *Workbook) Close() error {
	return w.file.Close()
}
