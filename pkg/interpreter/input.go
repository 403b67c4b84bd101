package interpreter

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/edwingeng/deque"
)

// Input supplies the lines consumed by read statements.
type Input interface {
	// ReadLine returns the next line without its terminator, or io.EOF once exhausted.
	ReadLine() (string, error)
}

// ReaderInput reads lines from an io.Reader such as os.Stdin.
type ReaderInput struct {
	r *bufio.Reader
}

func NewReaderInput(r io.Reader) *ReaderInput {
	return &ReaderInput{r: bufio.NewReader(r)}
}

func (in *ReaderInput) ReadLine() (string, error) {
	line, err := in.r.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) || line == "" {
			return "", err
		}
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// QueuedInput serves a fixed list of lines, as fixtures and tests provide them.
type QueuedInput struct {
	lines deque.Deque
}

func NewQueuedInput(lines ...string) *QueuedInput {
	q := &QueuedInput{lines: deque.NewDeque()}
	for _, line := range lines {
		q.lines.PushBack(line)
	}
	return q
}

// Remaining reports how many lines have not been consumed.
func (q *QueuedInput) Remaining() int {
	return q.lines.Len()
}

func (q *QueuedInput) ReadLine() (string, error) {
	if q.lines.Empty() {
		return "", io.EOF
	}
	line := q.lines.Front().(string)
	q.lines.PopFront()
	return line, nil
}
