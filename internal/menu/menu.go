// Package menu runs the numbered interactive organizer menu over line input.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/igm/organizer/internal/export"
	"github.com/igm/organizer/internal/logger"
	"github.com/igm/organizer/internal/storage"
)

// Menu choices. 999 is deliberately far from the others.
const (
	ChoiceExit   = 0
	ChoiceAdd    = 1
	ChoiceRemove = 2
	ChoiceEdit   = 3
	ChoiceList   = 4
	ChoiceSearch = 5
	ChoiceExport = 6
	ChoiceClear  = 999
)

// Options configures a Menu.
type Options struct {
	Color bool
	// ExportFormat applies when the export path has no extension.
	ExportFormat export.Format
}

// Menu drives an EntryStore from line-oriented input.
type Menu struct {
	store storage.EntryStore
	in    *bufio.Reader
	out   io.Writer
	p     painter
	opts  Options
	log   *slog.Logger
}

var (
	// errInputClosed ends the loop when input runs out mid-prompt.
	errInputClosed = errors.New("input closed")
	// errLineTooLong rejects one input line; the loop goes on.
	errLineTooLong = errors.New("input line too long")
)

// New creates a menu reading from in and writing to out.
func New(store storage.EntryStore, in io.Reader, out io.Writer, opts Options) *Menu {
	if opts.ExportFormat == "" {
		opts.ExportFormat = export.FormatText
	}
	return &Menu{
		store: store,
		in:    bufio.NewReader(in),
		out:   out,
		p:     painter{color: opts.Color},
		opts:  opts,
		log:   logger.Component("menu"),
	}
}

// Run shows the menu until the user exits, input ends or ctx is cancelled.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			m.println(m.p.info("Exiting..."))
			return nil
		}

		m.showMenu()
		line, err := m.readLine(m.p.prompt("===Choice=> "))
		if errors.Is(err, errLineTooLong) {
			m.println(m.p.fail("Input line too long. Please try again."))
			continue
		}
		if err != nil {
			m.println(m.p.info("Exiting..."))
			return inputErr(err)
		}

		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			m.println(m.p.fail("Invalid choice. Please try again."))
			continue
		}
		m.log.Debug("menu choice", "choice", choice)

		if choice == ChoiceExit {
			m.println(m.p.info("Exiting..."))
			return nil
		}

		if err := m.dispatch(choice); err != nil {
			if errors.Is(err, errLineTooLong) {
				m.println(m.p.fail(fmt.Sprintf("Input line too long (over %d bytes). Nothing changed.", storage.MaxFieldSize)))
				continue
			}
			m.println(m.p.info("Exiting..."))
			return inputErr(err)
		}
	}
}

func (m *Menu) showMenu() {
	m.println("")
	m.println(m.p.title("=====[ Organizer Menu ]===="))
	m.println("1. Add entry")
	m.println("2. Remove entry")
	m.println("3. Edit entry")
	m.println("4. Show entries")
	m.println("5. Search entries")
	m.println("6. Export entries")
	m.println("999. Clear all entries")
	m.println("0. Exit")
}

func (m *Menu) dispatch(choice int) error {
	switch choice {
	case ChoiceAdd:
		return m.add()
	case ChoiceRemove:
		return m.remove()
	case ChoiceEdit:
		return m.edit()
	case ChoiceList:
		m.list()
	case ChoiceSearch:
		return m.search()
	case ChoiceExport:
		return m.exportEntries()
	case ChoiceClear:
		m.clear()
	default:
		m.println(m.p.fail("Invalid choice. Please try again."))
	}
	return nil
}

func (m *Menu) add() error {
	title, description, date, err := m.readFields("")
	if err != nil {
		return err
	}
	m.report(m.store.Add(title, description, date), "Entry added.", "Entry not added.")
	return nil
}

func (m *Menu) remove() error {
	index, ok, err := m.readIndex("Index to remove: ")
	if err != nil {
		return err
	}
	if !ok {
		m.println(m.p.fail("Invalid index. Entry not removed."))
		return nil
	}
	m.report(m.store.RemoveAt(index), "Entry removed.", "Entry not removed.")
	return nil
}

func (m *Menu) edit() error {
	index, ok, err := m.readIndex("Index to edit: ")
	if err != nil {
		return err
	}
	if !ok {
		m.println(m.p.fail("Invalid index. Entry not changed."))
		return nil
	}

	title, description, date, err := m.readFields("new ")
	if err != nil {
		return err
	}
	m.report(m.store.EditAt(index, title, description, date), "Entry changed.", "Entry not changed.")
	return nil
}

func (m *Menu) list() {
	entries, err := m.store.List()
	if errors.Is(err, storage.ErrEmpty) {
		m.println(m.p.info("No entries in the organizer."))
		return
	}
	m.printEntries(entries)
}

func (m *Menu) search() error {
	query, err := m.readLine(m.p.prompt("Search query: "))
	if err != nil {
		return err
	}

	entries, err := m.store.Search(query)
	switch {
	case errors.Is(err, storage.ErrEmpty):
		m.println(m.p.info("No entries in the organizer."))
	case errors.Is(err, storage.ErrNoMatches):
		m.println(m.p.info("Nothing matched your query."))
	default:
		m.printEntries(entries)
	}
	return nil
}

func (m *Menu) exportEntries() error {
	path, err := m.readLine(m.p.prompt("File name to export to: "))
	if err != nil {
		return err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		m.println(m.p.fail("Export failed: empty file name."))
		return nil
	}

	format := m.opts.ExportFormat
	if filepath.Ext(path) != "" {
		format = export.FormatFromPath(path)
	}

	if err := export.ToFile(m.store, path, format); err != nil {
		m.log.Warn("export failed", "path", path, "error", err)
		m.println(m.p.fail(fmt.Sprintf("Export failed: %v", err)))
		return nil
	}
	m.println(m.p.ok(fmt.Sprintf("Entries exported to %s.", path)))
	return nil
}

func (m *Menu) clear() {
	m.report(m.store.Clear(), "All entries removed.", "Entries not removed.")
}

// report turns an operation result into one status line.
func (m *Menu) report(err error, success, failure string) {
	switch {
	case err == nil:
		m.println(m.p.ok(success))
	case errors.Is(err, storage.ErrPersist):
		m.println(m.p.fail(fmt.Sprintf("%s But saving failed: %v", success, err)))
	case errors.Is(err, storage.ErrIndexOutOfRange):
		m.println(m.p.fail("Invalid index. " + failure))
	default:
		m.println(m.p.fail(fmt.Sprintf("%s %v", failure, err)))
	}
}

func (m *Menu) printEntries(entries []storage.Indexed) {
	for _, ie := range entries {
		m.println(fmt.Sprintf("Index: %d, Title: %s, Description: %s, Date: %s",
			ie.Index, ie.Entry.Title, ie.Entry.Description, ie.Entry.Date))
	}
}

// readIndex reads an index and checks it before any field is prompted for.
func (m *Menu) readIndex(prompt string) (int, bool, error) {
	line, err := m.readLine(m.p.prompt(prompt))
	if err != nil {
		return 0, false, err
	}
	index, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, false, nil
	}
	return index, m.store.IsValidIndex(index), nil
}

// readFields prompts for all three fields even when one is too long, so the
// remaining answers are not read as menu choices.
func (m *Menu) readFields(prefix string) (title, description, date string, err error) {
	prompts := []string{"title: ", "description: ", "date (e.g. DD/MM/YYYY): "}
	values := make([]string, len(prompts))
	for i, p := range prompts {
		v, rerr := m.readLine(m.p.prompt("Enter " + prefix + p))
		switch {
		case errors.Is(rerr, errLineTooLong):
			err = rerr
		case rerr != nil:
			return "", "", "", rerr
		}
		values[i] = v
	}
	if err != nil {
		return "", "", "", err
	}
	return values[0], values[1], values[2], nil
}

// readLine reads one line of at most storage.MaxFieldSize bytes. A longer
// line is consumed to its end and reported as errLineTooLong.
func (m *Menu) readLine(prompt string) (string, error) {
	fmt.Fprint(m.out, prompt)

	var line []byte
	tooLong := false
	for {
		chunk, more, err := m.in.ReadLine()
		if err != nil {
			if len(line) > 0 || tooLong {
				break
			}
			m.println("")
			if errors.Is(err, io.EOF) {
				return "", errInputClosed
			}
			return "", fmt.Errorf("reading input: %w", err)
		}
		if !tooLong && len(line)+len(chunk) > storage.MaxFieldSize {
			tooLong = true
			line = nil
		}
		if !tooLong {
			line = append(line, chunk...)
		}
		if !more {
			break
		}
	}

	if tooLong {
		m.println("")
		return "", errLineTooLong
	}
	return string(line), nil
}

// println writes one line to the menu output.
func (m *Menu) println(s string) {
	fmt.Fprintln(m.out, s)
}

// inputErr reports read failures other than plain end of input.
func inputErr(err error) error {
	if errors.Is(err, errInputClosed) {
		return nil
	}
	return err
}
