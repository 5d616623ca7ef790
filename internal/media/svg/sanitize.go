// Package svg strips active content from uploaded SVG documents.
package svg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrNotSVG    = errors.New("not an svg document")
	ErrMalformed = errors.New("malformed svg document")
)

// droppedElements are removed together with everything nested in them.
var droppedElements = map[string]struct{}{
	"script":        {},
	"foreignobject": {},
	"handler":       {},
	"iframe":        {},
	"embed":         {},
	"object":        {},
}

// Sanitize re-serializes doc token by token, dropping scriptable elements,
// event handler attributes and attributes carrying script URLs. Comments,
// directives and processing instructions other than the xml declaration are
// dropped as well. Documents the tokenizer cannot read are rejected.
func Sanitize(doc []byte) ([]byte, error) {
	if !bytes.Contains(bytes.ToLower(doc), []byte("<svg")) {
		return nil, ErrNotSVG
	}

	dec := xml.NewDecoder(bytes.NewReader(doc))
	dec.Strict = false

	var out bytes.Buffer
	skipDepth := 0
	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if skipDepth > 0 {
				skipDepth++
				continue
			}
			if _, drop := droppedElements[strings.ToLower(t.Name.Local)]; drop {
				skipDepth = 1
				continue
			}
			writeStart(&out, t)
		case xml.EndElement:
			if skipDepth > 0 {
				skipDepth--
				continue
			}
			out.WriteString("</" + qualified(t.Name) + ">")
		case xml.CharData:
			if skipDepth > 0 {
				continue
			}
			if err := xml.EscapeText(&out, t); err != nil {
				return nil, err
			}
		case xml.ProcInst:
			if skipDepth == 0 && t.Target == "xml" {
				out.WriteString("<?xml " + string(t.Inst) + "?>")
			}
		}
	}

	if !bytes.Contains(bytes.ToLower(out.Bytes()), []byte("<svg")) {
		return nil, ErrNotSVG
	}
	return out.Bytes(), nil
}

func writeStart(out *bytes.Buffer, el xml.StartElement) {
	out.WriteString("<" + qualified(el.Name))
	for _, attr := range el.Attr {
		if unsafeAttr(attr) {
			continue
		}
		out.WriteString(" " + qualified(attr.Name) + `="`)
		_ = xml.EscapeText(out, []byte(attr.Value))
		out.WriteByte('"')
	}
	out.WriteByte('>')
}

func unsafeAttr(attr xml.Attr) bool {
	if strings.HasPrefix(strings.ToLower(attr.Name.Local), "on") {
		return true
	}
	// Browsers ignore whitespace and control bytes inside a URL scheme, and
	// animation elements can assign a script URL through values/to/from.
	value := strings.Map(func(r rune) rune {
		if r <= ' ' || r == 0x7f {
			return -1
		}
		return r
	}, strings.ToLower(attr.Value))
	return strings.Contains(value, "javascript:") || strings.Contains(value, "vbscript:")
}

func qualified(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}
