package extract_test

import (
	"archive/zip"
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/pitchdeskco/pitchdesk/pkg/extract"
)

// buildZip assembles an in-memory zip archive from name → content.
func buildZip(entries map[string]string) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		Expect(err).NotTo(HaveOccurred())
		_, err = w.Write([]byte(content))
		Expect(err).NotTo(HaveOccurred())
	}
	Expect(zw.Close()).To(Succeed())
	return buf.Bytes()
}

const docxXML = `<?xml version="1.0" encoding="UTF-8"?>` +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:body>` +
	`<w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph</w:t></w:r></w:p>` +
	`</w:body></w:document>`

func slideXML(text string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>` +
		`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
		` xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
		`<p:cSld><p:spTree><p:sp><p:txBody>` +
		`<a:p><a:r><a:t>` + text + `</a:t></a:r></a:p>` +
		`</p:txBody></p:sp></p:spTree></p:cSld></p:sld>`
}

var _ = Describe("FormatFor", func() {
	It("dispatches case-insensitively on extension", func() {
		Expect(extract.FormatFor("Report.DOCX")).To(Equal(extract.FormatDocx))
		Expect(extract.FormatFor("deck.PpTx")).To(Equal(extract.FormatPptx))
		Expect(extract.FormatFor("numbers.xlsx")).To(Equal(extract.FormatXlsx))
		Expect(extract.FormatFor("schema.SQL")).To(Equal(extract.FormatSQL))
	})

	It("maps everything else to unknown", func() {
		Expect(extract.FormatFor("notes.txt")).To(Equal(extract.FormatUnknown))
		Expect(extract.FormatFor("archive.docx.gz")).To(Equal(extract.FormatUnknown))
		Expect(extract.FormatFor("noextension")).To(Equal(extract.FormatUnknown))
	})
})

var _ = Describe("File", func() {
	Context("with a .docx file", func() {
		It("concatenates paragraph texts in document order", func() {
			data := buildZip(map[string]string{"word/document.xml": docxXML})

			result := extract.File("report.docx", data)
			Expect(result.OK()).To(BeTrue())
			Expect(result.Text).To(Equal("First paragraph\nSecond paragraph"))
		})

		It("converts corrupt archives into an error result", func() {
			result := extract.File("broken.docx", []byte("not a zip archive"))
			Expect(result.OK()).To(BeFalse())
			Expect(result.Render()).To(HavePrefix("Error extracting text:"))
		})
	})

	Context("with a .pptx file", func() {
		It("walks slides in numeric order", func() {
			data := buildZip(map[string]string{
				"ppt/slides/slide10.xml": slideXML("Tenth slide"),
				"ppt/slides/slide2.xml":  slideXML("Second slide"),
				"ppt/slides/slide1.xml":  slideXML("First slide"),
			})

			result := extract.File("deck.pptx", data)
			Expect(result.OK()).To(BeTrue())
			Expect(result.Text).To(Equal("First slide\nSecond slide\nTenth slide"))
		})

		It("skips slide archives without text", func() {
			data := buildZip(map[string]string{
				"ppt/slides/slide1.xml": `<?xml version="1.0"?><p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree></p:spTree></p:cSld></p:sld>`,
			})

			result := extract.File("empty.pptx", data)
			Expect(result.OK()).To(BeTrue())
			Expect(result.Text).To(Equal(""))
		})
	})

	Context("with an .xlsx file", func() {
		It("joins cells with spaces and rows with newlines, padding short rows", func() {
			f := excelize.NewFile()
			Expect(f.SetCellValue("Sheet1", "A1", "a")).To(Succeed())
			Expect(f.SetCellValue("Sheet1", "B1", "b")).To(Succeed())
			Expect(f.SetCellValue("Sheet1", "A2", "c")).To(Succeed())
			buf, err := f.WriteToBuffer()
			Expect(err).NotTo(HaveOccurred())

			result := extract.File("notes.xlsx", buf.Bytes())
			Expect(result.OK()).To(BeTrue())
			Expect(result.Text).To(Equal("a b\nc "))
		})

		It("converts corrupt workbooks into an error result", func() {
			result := extract.File("broken.xlsx", []byte{0x00, 0x01})
			Expect(result.OK()).To(BeFalse())
			Expect(result.Render()).To(HavePrefix("Error extracting text:"))
		})
	})

	Context("with a .sql file", func() {
		It("returns the UTF-8 bytes verbatim", func() {
			src := "SELECT *\nFROM users;\n-- trailing comment"
			result := extract.File("schema.sql", []byte(src))
			Expect(result.OK()).To(BeTrue())
			Expect([]byte(result.Text)).To(Equal([]byte(src)))
		})

		It("rejects invalid UTF-8", func() {
			result := extract.File("binary.sql", []byte{0xff, 0xfe, 0xfd})
			Expect(result.OK()).To(BeFalse())
			Expect(result.Render()).To(HavePrefix("Error extracting text:"))
		})
	})

	Context("with an unsupported extension", func() {
		It("renders the fixed unsupported string", func() {
			result := extract.File("notes.txt", []byte("plain text"))
			Expect(result.OK()).To(BeFalse())
			Expect(result.Render()).To(Equal("Unsupported file type for text extraction."))
		})
	})
})
