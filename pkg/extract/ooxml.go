package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Both WordprocessingML and DrawingML express text as runs of <…:t>
// character data inside <…:p> paragraph elements. The walker below
// matches on local names only, so it serves .docx (w:p / w:t) and
// .pptx slides (a:p / a:t) alike.

func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}
	doc, err := readZipFile(zr, "word/document.xml")
	if err != nil {
		return "", err
	}
	lines, err := paragraphLines(doc)
	if err != nil {
		return "", fmt.Errorf("parse document.xml: %w", err)
	}
	return strings.Join(lines, "\n"), nil
}

var slideName = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

func extractPptx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pptx archive: %w", err)
	}

	type slide struct {
		index int
		name  string
	}
	var slides []slide
	for _, f := range zr.File {
		m := slideName.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		slides = append(slides, slide{index: idx, name: f.Name})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].index < slides[j].index })

	var lines []string
	for _, s := range slides {
		doc, err := readZipFile(zr, s.name)
		if err != nil {
			return "", err
		}
		slideLines, err := paragraphLines(doc)
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", s.name, err)
		}
		lines = append(lines, slideLines...)
	}
	return strings.Join(lines, "\n"), nil
}

func extractSQL(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("decode sql file: invalid UTF-8")
	}
	return string(data), nil
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("archive entry %s not found", name)
}

// paragraphLines walks the XML and emits one line per paragraph
// element, joining the character data of its text runs.
func paragraphLines(doc []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))

	var (
		lines  []string
		para   strings.Builder
		inPara bool
		inText bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				para.Reset()
			case "t":
				inText = inPara
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inPara {
					lines = append(lines, para.String())
				}
				inPara = false
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}
	return lines, nil
}
