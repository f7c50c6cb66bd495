package stream

import (
	"encoding/json"
	"log"
	"strings"
)

const (
	openTag  = "[SOURCES_JSON]"
	closeTag = "[/SOURCES_JSON]"
)

// SourceTagProcessor extracts [SOURCES_JSON]...[/SOURCES_JSON] blocks from a
// stream of arbitrarily split text fragments. It is a three-state machine:
// passthrough (no tag context open), awaiting-open (the held carry buffer
// ends with a prefix of the open tag), and capturing (between the tags).
// Plain text around the tags is re-emitted as answer events without loss or
// duplication no matter where the chunk boundaries fall, and malformed
// blocks degrade to plain text instead of failing the stream.
//
// Out-of-band url citations (FeedCitation) are collected and emitted as one
// trailing sources event on Flush, deduplicated against tag-derived sources
// by URL (by name when no URL is present).
type SourceTagProcessor struct {
	capturing bool
	carry     string // passthrough text that may be a partial open tag
	capture   string // text accumulated between open and close tags
	seen      map[string]bool
	citations []Source
	lookup    map[string]string // filing description -> URL enrichment
}

// NewSourceTagProcessor creates a processor. filingLookup may be nil; when
// supplied, tag-derived sources whose name matches a known filing
// description are enriched with that filing's URL before emission.
func NewSourceTagProcessor(filingLookup map[string]string) *SourceTagProcessor {
	return &SourceTagProcessor{
		seen:   make(map[string]bool),
		lookup: filingLookup,
	}
}

// FeedText consumes one text fragment and returns the events it completes.
func (p *SourceTagProcessor) FeedText(chunk string) []Event {
	if chunk == "" {
		return nil
	}
	var events []Event
	data := p.carry + chunk
	p.carry = ""

	for data != "" {
		if p.capturing {
			combined := p.capture + data
			idx := strings.Index(combined, closeTag)
			if idx < 0 {
				// Close tag not complete yet; keep everything captured.
				p.capture = combined
				return events
			}
			events = append(events, p.finishBlock(combined[:idx])...)
			p.capture = ""
			p.capturing = false
			data = combined[idx+len(closeTag):]
			continue
		}

		if idx := strings.Index(data, openTag); idx >= 0 {
			if idx > 0 {
				events = append(events, Answer(data[:idx]))
			}
			p.capturing = true
			data = data[idx+len(openTag):]
			continue
		}

		// No full open tag. Hold back any suffix that could be the start
		// of one and emit the unambiguous remainder.
		keep := partialTagSuffix(data, openTag)
		if keep < len(data) {
			events = append(events, Answer(data[:len(data)-keep]))
		}
		p.carry = data[len(data)-keep:]
		return events
	}
	return events
}

// FeedCitation records an out-of-band url_citation object for emission at
// end of stream.
func (p *SourceTagProcessor) FeedCitation(url, title string) {
	name := title
	if name == "" {
		name = url
	}
	p.citations = append(p.citations, Source{Name: name, URL: url})
}

// Flush must be called at end of stream. An unterminated tag is flushed
// verbatim as answer text, and collected citations are emitted as a final
// sources event after dedup. No input is ever discarded.
func (p *SourceTagProcessor) Flush() []Event {
	var events []Event
	if p.capturing {
		events = append(events, Answer(openTag+p.capture))
		p.capture = ""
		p.capturing = false
	} else if p.carry != "" {
		events = append(events, Answer(p.carry))
		p.carry = ""
	}

	var fresh []Source
	for _, c := range p.citations {
		if p.markSeen(c) {
			fresh = append(fresh, c)
		}
	}
	p.citations = nil
	if len(fresh) > 0 {
		events = append(events, Sources(fresh))
	}
	return events
}

// finishBlock parses one captured span. Parse failures degrade the whole
// block back to plain answer text, tags included.
func (p *SourceTagProcessor) finishBlock(span string) []Event {
	var parsed struct {
		Sources []Source `json:"sources"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(span)), &parsed); err != nil {
		log.Printf("[WARNING] Malformed SOURCES_JSON block, passing through as text: %v", err)
		return []Event{Answer(openTag + span + closeTag)}
	}

	var fresh []Source
	for _, src := range parsed.Sources {
		if src.Name == "" && src.URL == "" {
			continue
		}
		if src.URL == "" && p.lookup != nil {
			if url, ok := p.lookup[src.Name]; ok {
				src.URL = url
			}
		}
		if p.markSeen(src) {
			fresh = append(fresh, src)
		}
	}
	if len(fresh) == 0 {
		return nil
	}
	return []Event{Sources(fresh)}
}

// markSeen registers a source and reports whether it was new. Dedup is by
// URL when present, otherwise by name.
func (p *SourceTagProcessor) markSeen(src Source) bool {
	key := src.URL
	if key == "" {
		key = src.Name
	}
	if p.seen[key] {
		return false
	}
	p.seen[key] = true
	return true
}

// partialTagSuffix returns the length of the longest suffix of s that is a
// proper prefix of tag.
func partialTagSuffix(s, tag string) int {
	max := len(tag) - 1
	if max > len(s) {
		max = len(s)
	}
	for l := max; l > 0; l-- {
		if strings.HasSuffix(s, tag[:l]) {
			return l
		}
	}
	return 0
}
