package tracking

// Debouncer is a single pending-timer slot. Every Bump replaces whatever was
// pending and hands out a new ticket; only the newest ticket can Fire, and it
// fires once. The caller owns the actual timer (a tea.Tick in the TUI) and
// passes the ticket back when it expires.
type Debouncer struct {
	seq     uint64
	value   string
	pending bool
}

func (d *Debouncer) Bump(value string) uint64 {
	d.seq++
	d.value = value
	d.pending = true
	return d.seq
}

// Fire reports the pending value if ticket is still the newest one.
func (d *Debouncer) Fire(ticket uint64) (string, bool) {
	if !d.pending || ticket != d.seq {
		return "", false
	}
	d.pending = false
	return d.value, true
}

// Cancel drops the pending value. Outstanding tickets become inert.
func (d *Debouncer) Cancel() {
	d.seq++
	d.pending = false
	d.value = ""
}

func (d *Debouncer) Pending() bool { return d.pending }
