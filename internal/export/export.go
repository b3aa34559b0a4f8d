// Package export writes organizer entries to external files.
//
// The text format is the backing file format, so a text export can be opened
// as a store. YAML and XLSX exports are for reading elsewhere.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/igm/organizer/internal/storage"
)

// Format names an export file format.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// SheetName is the worksheet that holds exported entries.
const SheetName = "Entries"

// ErrUnknownFormat is returned for format names other than text, yaml and xlsx.
var ErrUnknownFormat = errors.New("unknown export format")

var header = []interface{}{"Index", "Title", "Description", "Date"}

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatText, FormatYAML, FormatXLSX}
}

// ParseFormat converts a user supplied name. "yml" and "txt" are accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text", "txt":
		return FormatText, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatFromPath infers a format from the file extension, defaulting to text.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".xlsx":
		return FormatXLSX
	default:
		return FormatText
	}
}

// Write replaces path with entries encoded in format.
func Write(path string, format Format, entries []storage.Entry) error {
	data, err := encode(format, entries)
	if err != nil {
		return err
	}
	if err := storage.WriteFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s export: %w", format, err)
	}
	return nil
}

func encode(format Format, entries []storage.Entry) ([]byte, error) {
	switch format {
	case FormatText:
		return storage.Marshal(entries), nil
	case FormatYAML:
		if entries == nil {
			entries = []storage.Entry{}
		}
		data, err := yaml.Marshal(entries)
		if err != nil {
			return nil, fmt.Errorf("marshaling yaml: %w", err)
		}
		return data, nil
	case FormatXLSX:
		return encodeXLSX(entries)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func encodeXLSX(entries []storage.Entry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{i, e.Title, e.Description, e.Date}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encoding workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ToFile exports the store's entries to path. Text goes through the store's
// own ExportTo so the output matches its backing file byte for byte.
func ToFile(store storage.EntryStore, path string, format Format) error {
	if format == FormatText {
		return store.ExportTo(path)
	}
	return Write(path, format, store.Entries())
}

// Read loads entries previously written by Write.
func Read(path string, format Format) ([]storage.Entry, error) {
	switch format {
	case FormatText:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return storage.Decode(f)

	case FormatYAML:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var entries []storage.Entry
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("unmarshaling yaml: %w", err)
		}
		return entries, nil

	case FormatXLSX:
		return readXLSX(path)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func readXLSX(path string) ([]storage.Entry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}

	var entries []storage.Entry
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		// GetRows trims trailing empty cells
		cell := func(n int) string {
			if n < len(row) {
				return row[n]
			}
			return ""
		}
		entries = append(entries, storage.Entry{
			Title:       cell(1),
			Description: cell(2),
			Date:        cell(3),
		})
	}
	return entries, nil
}
