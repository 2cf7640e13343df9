package tui

// View identifies a screen on the navigator stack.
type View int

const (
	ViewTracking View = iota
	ViewCart
	ViewProductSearch
	ViewProfile
)

func (v View) Title() string {
	switch v {
	case ViewTracking:
		return "Track My Parcel"
	case ViewCart:
		return "Cart"
	case ViewProductSearch:
		return "Search"
	case ViewProfile:
		return "Profile"
	default:
		return ""
	}
}

type focusChange int

const (
	blurred focusChange = iota
	focused
)

// transition is one focus event produced by a stack change.
type transition struct {
	view   View
	change focusChange
}

// Navigator is a stack of screens; the top one has focus. Every change
// reports blur for the screen that lost focus before focus for the one
// that gained it.
type Navigator struct {
	stack []View
}

func NewNavigator(root View) *Navigator {
	return &Navigator{stack: []View{root}}
}

func (n *Navigator) Top() View { return n.stack[len(n.stack)-1] }

func (n *Navigator) Depth() int { return len(n.stack) }

func (n *Navigator) CanGoBack() bool { return len(n.stack) > 1 }

// Stack returns a copy of the stack, root first.
func (n *Navigator) Stack() []View {
	out := make([]View, len(n.stack))
	copy(out, n.stack)
	return out
}

func (n *Navigator) Push(v View) []transition {
	top := n.Top()
	if top == v {
		return nil
	}
	n.stack = append(n.stack, v)
	return []transition{{top, blurred}, {v, focused}}
}

// Pop removes the top screen. It reports false at the root.
func (n *Navigator) Pop() ([]transition, bool) {
	if !n.CanGoBack() {
		return nil, false
	}
	top := n.Top()
	n.stack = n.stack[:len(n.stack)-1]
	return []transition{{top, blurred}, {n.Top(), focused}}, true
}

// Navigate brings v to the top: screens above an existing v are popped,
// otherwise v is pushed.
func (n *Navigator) Navigate(v View) []transition {
	idx := -1
	for i, s := range n.stack {
		if s == v {
			idx = i
		}
	}
	if idx < 0 {
		return n.Push(v)
	}
	if idx == len(n.stack)-1 {
		return nil
	}

	var out []transition
	for len(n.stack)-1 > idx {
		t, _ := n.Pop()
		out = append(out, t...)
	}
	return out
}
