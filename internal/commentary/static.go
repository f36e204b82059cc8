package commentary

import (
	"context"
	"strings"
	"sync"
)

// Static is a Generator that needs no external service: it decorates the
// event description from the prompt with a rotating exclamation and streams
// it word by word.
type Static struct {
	mu   sync.Mutex
	next int
}

var exclamations = []string{"Oh my!", "Incredible!", "Look at that!", "Unbelievable!", "Here we go!"}

// Stream implements Generator.
func (s *Static) Stream(ctx context.Context, prompt string) (<-chan string, error) {
	desc := prompt
	if i := strings.LastIndex(prompt, "Event: "); i >= 0 {
		desc = prompt[i+len("Event: "):]
	}

	s.mu.Lock()
	lead := exclamations[s.next%len(exclamations)]
	s.next++
	s.mu.Unlock()

	words := strings.Fields(lead + " " + desc)
	out := make(chan string)
	go func() {
		defer close(out)
		for i, w := range words {
			if i > 0 {
				w = " " + w
			}
			select {
			case out <- w:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
