package tail

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"time"
)

// DefaultPoll is how often Follow checks the file for new content
const DefaultPoll = 100 * time.Millisecond

// Options controls what Follow writes
type Options struct {
	// Follow keeps streaming appended lines after the end of the file
	Follow bool
	// Match keeps only lines containing every one of these substrings,
	// e.g. "component=store" or "level=WARN"
	Match []string
	// Poll overrides DefaultPoll
	Poll time.Duration
}

// matches reports whether line contains all of the patterns
func (o Options) matches(line []byte) bool {
	for _, m := range o.Match {
		if !bytes.Contains(line, []byte(m)) {
			return false
		}
	}
	return true
}

// Follow writes the lines of a log file to w. With opts.Follow it keeps
// polling for appended lines until ctx is cancelled; otherwise it returns at
// the end of the file. A trailing partial line is only written once its
// newline arrives, or at the end when not following.
func Follow(ctx context.Context, filePath string, w io.Writer, opts Options) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	poll := opts.Poll
	if poll <= 0 {
		poll = DefaultPoll
	}

	r := bufio.NewReader(file)
	var partial []byte
	for {
		chunk, err := r.ReadBytes('\n')
		partial = append(partial, chunk...)
		if err == nil {
			if opts.matches(partial) {
				if _, werr := w.Write(partial); werr != nil {
					return werr
				}
			}
			partial = partial[:0]
			continue
		}
		if err != io.EOF {
			return err
		}

		if !opts.Follow {
			if len(partial) > 0 && opts.matches(partial) {
				if _, werr := w.Write(append(partial, '\n')); werr != nil {
					return werr
				}
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(poll):
		}
	}
}

// ParseMatch splits a comma separated filter into patterns
func ParseMatch(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
