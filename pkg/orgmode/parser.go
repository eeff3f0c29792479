// Package orgmode imports TODO/DONE headings from Org-mode files as task records.
package orgmode

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/harrisonrobin/taskflow/pkg/task"
)

var (
	headingStart  = regexp.MustCompile(`^\*+\s`)
	headingRegex  = regexp.MustCompile(`^\*+\s+(TODO|DONE)\s+(?:\[#[A-Z]\]\s*)?(.*?)(?:\s+:[\w@:]+:)?\s*$`)
	deadlineRegex = regexp.MustCompile(`DEADLINE:\s+<(\d{4}-\d{2}-\d{2})(?:\s+[A-Za-z]{2,3})?(?:\s+\d{1,2}:\d{2})?>`)
	idRegex       = regexp.MustCompile(`^:ID:\s+(\S+)`)
	createdRegex  = regexp.MustCompile(`^:CREATED:\s+\[(\d{4}-\d{2}-\d{2})`)
)

// ParseFile parses the Org-mode file at path.
func ParseFile(path string) ([]task.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads TODO and DONE headings of any level. A heading's DEADLINE
// planning line and :ID: / :CREATED: properties are picked up until the next
// heading. Headings without a title are ignored.
func Parse(r io.Reader) ([]task.Record, error) {
	scanner := bufio.NewScanner(r)
	var records []task.Record
	var current *task.Record

	flush := func() {
		if current != nil && current.Description != "" {
			records = append(records, *current)
		}
		current = nil
	}

	for scanner.Scan() {
		raw := scanner.Text()
		line := strings.TrimSpace(raw)

		if headingStart.MatchString(raw) {
			flush()
			if m := headingRegex.FindStringSubmatch(line); m != nil {
				current = &task.Record{
					Description: strings.TrimSpace(m[2]),
					Completed:   m[1] == "DONE",
				}
			}
			continue
		}
		if current == nil {
			continue
		}

		if m := deadlineRegex.FindStringSubmatch(line); m != nil {
			if d, err := task.ParseDate(m[1]); err == nil {
				current.Deadline = &d
			}
		} else if m := idRegex.FindStringSubmatch(line); m != nil {
			current.ID = task.RecordID(m[1])
		} else if m := createdRegex.FindStringSubmatch(line); m != nil {
			if d, err := task.ParseDate(m[1]); err == nil {
				created := d.Midnight(time.Local)
				current.CreatedAt = &created
			}
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
