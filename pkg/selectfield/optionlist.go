package selectfield

import "fmt"

// Change is one membership mutation of an OptionList. Mutations queue up as
// Change records and are delivered to the subscribed field in batches, after
// the code that performed them has finished running.
type Change struct {
	Added   []*Option
	Removed []*Option
}

// OptionList is an ordered, mutable sequence of options. Membership changes
// are not acted on synchronously: each mutation appends a Change record to a
// pending queue, and Flush delivers the whole queue to subscribers as one
// batch. Callers embedded in an event loop schedule Flush after the current
// event, which mirrors how batched change observation behaves; tests may call
// it directly.
type OptionList struct {
	options []*Option
	pending []Change

	field       *Field
	subscribers []func([]Change)

	idPrefix string
	nextID   int
}

// NewOptionList creates an empty list.
func NewOptionList() *OptionList {
	return &OptionList{}
}

// SetIDPrefix sets the namespace used for option identifiers. Options added
// from then on are assigned ids of the form "<prefix>-opt-<n>". Options
// already attached keep their ids.
func (l *OptionList) SetIDPrefix(prefix string) {
	l.idPrefix = prefix
}

// Len returns the number of options.
func (l *OptionList) Len() int { return len(l.options) }

// At returns the option at position i.
func (l *OptionList) At(i int) *Option { return l.options[i] }

// Options returns the options in collection order. The returned slice is a
// copy; the options themselves are shared.
func (l *OptionList) Options() []*Option {
	out := make([]*Option, len(l.options))
	copy(out, l.options)
	return out
}

// Index returns the position of opt in the list, or -1.
func (l *OptionList) Index(opt *Option) int {
	for i, o := range l.options {
		if o == opt {
			return i
		}
	}
	return -1
}

// ByValue returns the first option whose value equals v, or nil.
func (l *OptionList) ByValue(v string) *Option {
	for _, o := range l.options {
		if o.value == v {
			return o
		}
	}
	return nil
}

// Add appends options to the end of the list and queues a Change record.
func (l *OptionList) Add(opts ...*Option) {
	if len(opts) == 0 {
		return
	}
	for _, o := range opts {
		l.adopt(o)
		l.options = append(l.options, o)
	}
	l.push(Change{Added: append([]*Option(nil), opts...)})
}

// Insert places opt at position i, shifting later options down. Positions
// out of range clamp to the ends.
func (l *OptionList) Insert(i int, opt *Option) {
	if i < 0 {
		i = 0
	}
	if i > len(l.options) {
		i = len(l.options)
	}
	l.adopt(opt)
	l.options = append(l.options, nil)
	copy(l.options[i+1:], l.options[i:])
	l.options[i] = opt
	l.push(Change{Added: []*Option{opt}})
}

// Remove detaches opt from the list and queues a Change record. It reports
// whether the option was a member.
func (l *OptionList) Remove(opt *Option) bool {
	i := l.Index(opt)
	if i < 0 {
		return false
	}
	l.options = append(l.options[:i], l.options[i+1:]...)
	opt.owner = nil
	l.push(Change{Removed: []*Option{opt}})
	return true
}

// Clear removes every option in one Change record.
func (l *OptionList) Clear() {
	if len(l.options) == 0 {
		return
	}
	removed := l.options
	l.options = nil
	for _, o := range removed {
		o.owner = nil
	}
	l.push(Change{Removed: removed})
}

// Subscribe registers fn to receive batched Change records on Flush.
func (l *OptionList) Subscribe(fn func([]Change)) {
	l.subscribers = append(l.subscribers, fn)
}

// HasPending reports whether mutations await delivery.
func (l *OptionList) HasPending() bool { return len(l.pending) > 0 }

// Flush delivers all queued Change records to subscribers as one batch and
// empties the queue. Mutations performed by subscribers during delivery queue
// up for the next flush rather than extending the current batch.
func (l *OptionList) Flush() {
	if len(l.pending) == 0 {
		return
	}
	batch := l.pending
	l.pending = nil
	for _, fn := range l.subscribers {
		fn(batch)
	}
}

func (l *OptionList) push(c Change) {
	l.pending = append(l.pending, c)
}

func (l *OptionList) adopt(o *Option) {
	o.owner = l
	if o.id == "" {
		l.nextID++
		if l.idPrefix != "" {
			o.id = fmt.Sprintf("%s-opt-%d", l.idPrefix, l.nextID)
		} else {
			o.id = fmt.Sprintf("opt-%d", l.nextID)
		}
	}
}

// attach binds the list to the field observing it. A list feeds exactly one
// field; binding a second one is a wiring mistake.
func (l *OptionList) attach(f *Field) {
	if l.field != nil && l.field != f {
		panic("selectfield: option list is already attached to a field")
	}
	l.field = f
}

// detach releases the field binding on teardown.
func (l *OptionList) detach(f *Field) {
	if l.field == f {
		l.field = nil
	}
}
