package widget

// Panel owns an ordered set of widgets and tracks which one has focus.
type Panel struct {
	widgets []Widget
	focus   int
}

func NewPanel(widgets ...Widget) *Panel {
	return &Panel{widgets: widgets}
}

func (p *Panel) Widgets() []Widget { return p.widgets }

func (p *Panel) Focus() int { return p.focus }

func (p *Panel) Focused() Widget {
	if len(p.widgets) == 0 {
		return nil
	}
	return p.widgets[p.focus]
}

func (p *Panel) Next() {
	if len(p.widgets) > 0 {
		p.focus = (p.focus + 1) % len(p.widgets)
	}
}

func (p *Panel) Prev() {
	if len(p.widgets) > 0 {
		p.focus = (p.focus - 1 + len(p.widgets)) % len(p.widgets)
	}
}

// Inc nudges the focused widget up and reports whether a value changed.
func (p *Panel) Inc() bool {
	if w := p.Focused(); w != nil {
		return w.Inc()
	}
	return false
}

func (p *Panel) Dec() bool {
	if w := p.Focused(); w != nil {
		return w.Dec()
	}
	return false
}

// Press clicks the focused widget if it is a button.
func (p *Panel) Press() bool {
	if b, ok := p.Focused().(*Button); ok {
		b.Click()
		return true
	}
	return false
}
