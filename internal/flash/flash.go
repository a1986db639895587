// Package flash carries one-shot messages forward to the next rendered page.
package flash

type Kind string

const (
	Success Kind = "success_msg"
	Error   Kind = "error_msg"
)

type Notifier interface {
	Push(kind Kind, text string)
}

// Messages is what a page receives: every pending message grouped by kind.
type Messages map[Kind][]string

// Bag accumulates messages until they are taken. The zero value is ready to use.
type Bag struct {
	Pending Messages `json:"pending,omitempty"`
}

func (b *Bag) Push(kind Kind, text string) {
	if text == "" {
		return
	}

	if b.Pending == nil {
		b.Pending = make(Messages)
	}

	b.Pending[kind] = append(b.Pending[kind], text)
}

// Take returns the pending messages and empties the bag.
func (b *Bag) Take() Messages {
	out := b.Pending
	b.Pending = nil

	if out == nil {
		return Messages{}
	}

	return out
}

func (b *Bag) Len() int {
	n := 0
	for _, msgs := range b.Pending {
		n += len(msgs)
	}
	return n
}

// Get returns messages of one kind, never nil so it renders as [] in JSON.
func (m Messages) Get(kind Kind) []string {
	if msgs := m[kind]; msgs != nil {
		return msgs
	}
	return []string{}
}
