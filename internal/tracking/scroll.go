package tracking

// DefaultScrollSlack is how far from the end of the content a scroll position
// still counts as the bottom.
const DefaultScrollSlack = 20

// ScrollSample is one scroll position reading. Offset is the first visible
// line, Viewport the visible height and Content the total height.
type ScrollSample struct {
	Offset   int
	Viewport int
	Content  int
}

type ScrollMonitor struct {
	Slack int
}

func NewScrollMonitor(slack int) ScrollMonitor {
	if slack < 0 {
		slack = 0
	}
	return ScrollMonitor{Slack: slack}
}

func (m ScrollMonitor) NearBottom(s ScrollSample) bool {
	return s.Offset+s.Viewport >= s.Content-m.Slack
}
