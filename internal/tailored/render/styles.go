package render

import (
	"fmt"
	"strings"
)

// RunStyle captures the run formatting a paragraph style applies.
type RunStyle struct {
	Bold  bool
	Size  int // half-points
	Color string
}

const (
	HeadingColor = "1F2937"
	TitleColor   = "111111"
	BodySize     = 22
	HeadingSize  = 24
	TitleSize    = 32
	BodyFont     = "Calibri"
)

type styleDef struct {
	id     Style
	name   string
	run    RunStyle
	before int // twentieths of a point
	indent bool
}

var styleDefs = []styleDef{
	{id: StyleTitle, name: "Title", run: RunStyle{Bold: true, Size: TitleSize, Color: TitleColor}},
	{id: StyleHeading, name: "heading 2", run: RunStyle{Bold: true, Size: HeadingSize, Color: HeadingColor}, before: 240},
	{id: StyleBullet, name: "List Bullet", run: RunStyle{Size: BodySize}, indent: true},
}

func stylesXML() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<w:styles xmlns:w="` + wmlNamespace + `">`)
	fmt.Fprintf(&b, `<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="%[1]s" w:hAnsi="%[1]s" w:cs="%[1]s"/><w:sz w:val="%[2]d"/></w:rPr></w:rPrDefault></w:docDefaults>`, BodyFont, BodySize)
	b.WriteString(`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:pPr><w:spacing w:after="80"/></w:pPr></w:style>`)
	for _, def := range styleDefs {
		fmt.Fprintf(&b, `<w:style w:type="paragraph" w:styleId="%s"><w:name w:val="%s"/><w:basedOn w:val="Normal"/><w:pPr>`, def.id, def.name)
		if def.before > 0 {
			fmt.Fprintf(&b, `<w:spacing w:before="%d"/>`, def.before)
		}
		if def.indent {
			b.WriteString(`<w:ind w:left="360" w:hanging="180"/>`)
		}
		b.WriteString(`</w:pPr><w:rPr>`)
		if def.run.Bold {
			b.WriteString(`<w:b/>`)
		}
		if def.run.Color != "" {
			fmt.Fprintf(&b, `<w:color w:val="%s"/>`, def.run.Color)
		}
		if def.run.Size > 0 {
			fmt.Fprintf(&b, `<w:sz w:val="%d"/>`, def.run.Size)
		}
		b.WriteString(`</w:rPr></w:style>`)
	}
	b.WriteString(`</w:styles>`)
	return b.String()
}
