package stream

// ParagraphCollector observes the post-processed event stream and builds the
// end-of-stream sources_grouped summary: every distinct source annotated
// with the zero-based indices of the answer paragraphs it was cited in.
// Paragraphs are delimited by blank lines ("\n\n"), which may arrive split
// across answer chunks.
//
// Inline sources events still pass through to the client unchanged; the
// collector only watches them.
type ParagraphCollector struct {
	boundaries  int
	inParagraph bool
	newlineRun  int

	order   []string
	grouped map[string]*GroupedSource
}

// NewParagraphCollector creates an empty collector.
func NewParagraphCollector() *ParagraphCollector {
	return &ParagraphCollector{
		grouped: make(map[string]*GroupedSource),
	}
}

// OnAnswer advances the paragraph counter across one answer chunk.
func (c *ParagraphCollector) OnAnswer(text string) {
	for _, r := range text {
		if r == '\n' {
			c.newlineRun++
			if c.newlineRun == 2 {
				c.boundaries++
				c.inParagraph = false
				c.newlineRun = 0
			}
			continue
		}
		c.newlineRun = 0
		c.inParagraph = true
	}
}

// OnSources records a sources event against the paragraph it belongs to. A
// sources block that arrives right after a paragraph boundary is attributed
// to the paragraph that just ended, not the one that has not started yet.
func (c *ParagraphCollector) OnSources(srcs []Source) {
	idx := c.boundaries
	if !c.inParagraph {
		idx = c.boundaries - 1
		if idx < 0 {
			idx = 0
		}
	}
	for _, src := range srcs {
		key := src.URL
		if key == "" {
			key = src.Name
		}
		if key == "" {
			continue
		}
		g, ok := c.grouped[key]
		if !ok {
			g = &GroupedSource{Name: src.Name, URL: src.URL}
			c.grouped[key] = g
			c.order = append(c.order, key)
		}
		if n := len(g.ParagraphIndices); n == 0 || g.ParagraphIndices[n-1] != idx {
			g.ParagraphIndices = append(g.ParagraphIndices, idx)
		}
	}
}

// Finish returns the sources_grouped event, or ok=false when no sources were
// seen over the whole stream.
func (c *ParagraphCollector) Finish() (Event, bool) {
	if len(c.order) == 0 {
		return Event{}, false
	}
	body := GroupedSources{Sources: make([]GroupedSource, 0, len(c.order))}
	for _, key := range c.order {
		body.Sources = append(body.Sources, *c.grouped[key])
	}
	return Event{Type: EventSourcesGrouped, Body: body}, true
}
