// Package pdftest writes small, well-formed PDF files for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Page describes one generated page
type Page struct {
	// Text is drawn with a single Tj operator
	Text string
	// Image adds a 1x1 grayscale image XObject to the page resources
	Image bool
	// FormImage adds a form XObject to the page resources whose own
	// resources hold the image. The page itself lists no image.
	FormImage bool
	// InheritedImage leaves out the page's /Resources so it inherits the
	// page tree's, which hold a shared image. Image and FormImage are then
	// unreachable from the page.
	InheritedImage bool
}

const (
	imageDict = "/Type /XObject /Subtype /Image /Width 1 /Height 1 /ColorSpace /DeviceGray /BitsPerComponent 8"
	imageData = "\x80"
)

// Build renders the pages into PDF bytes with a correct cross-reference table
func Build(pages ...Page) []byte {
	if len(pages) == 0 {
		pages = []Page{{}}
	}

	// Object layout: 1 catalog, 2 page tree, 3 font, 4 shared image, then per
	// page: page dict, content stream, an optional image and an optional form
	// with its nested image.
	type pageObjs struct {
		page, content, image, form, formImage int
	}
	const sharedImage = 4
	next := 5
	layout := make([]pageObjs, len(pages))
	inherits := false
	for i, p := range pages {
		layout[i].page = next
		layout[i].content = next + 1
		next += 2
		if p.Image {
			layout[i].image = next
			next++
		}
		if p.FormImage {
			layout[i].form = next
			layout[i].formImage = next + 1
			next += 2
		}
		inherits = inherits || p.InheritedImage
	}

	objects := make([]string, next)
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", layout[i].page)
	}
	treeResources := ""
	if inherits {
		treeResources = fmt.Sprintf(" /Resources << /Font << /F1 3 0 R >> /XObject << /Im0 %d 0 R >> >>", sharedImage)
	}
	objects[1] = "<< /Type /Catalog /Pages 2 0 R >>"
	objects[2] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d%s >>", strings.Join(kids, " "), len(pages), treeResources)
	objects[3] = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>"
	// Unreferenced when no page inherits, which readers tolerate
	objects[sharedImage] = stream(imageDict, imageData)

	for i, p := range pages {
		resources := "/Font << /F1 3 0 R >>"
		var xObjects []string
		var content strings.Builder
		if p.Text != "" {
			fmt.Fprintf(&content, "BT /F1 12 Tf 72 720 Td (%s) Tj ET\n", escape(p.Text))
		}
		if p.Image {
			xObjects = append(xObjects, fmt.Sprintf("/Im1 %d 0 R", layout[i].image))
			content.WriteString("q 100 0 0 100 72 500 cm /Im1 Do Q\n")
			objects[layout[i].image] = stream(imageDict, imageData)
		}
		if p.FormImage {
			xObjects = append(xObjects, fmt.Sprintf("/Fm1 %d 0 R", layout[i].form))
			content.WriteString("q 1 0 0 1 72 300 cm /Fm1 Do Q\n")
			objects[layout[i].form] = stream(
				fmt.Sprintf("/Type /XObject /Subtype /Form /BBox [0 0 100 100] /Resources << /XObject << /Im1 %d 0 R >> >>", layout[i].formImage),
				"q 100 0 0 100 0 0 cm /Im1 Do Q")
			objects[layout[i].formImage] = stream(imageDict, imageData)
		}
		if len(xObjects) > 0 {
			resources += " /XObject << " + strings.Join(xObjects, " ") + " >>"
		}

		pageResources := fmt.Sprintf(" /Resources << %s >>", resources)
		if p.InheritedImage {
			pageResources = ""
			content.WriteString("q 100 0 0 100 72 100 cm /Im0 Do Q\n")
		}
		objects[layout[i].page] = fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792]%s /Contents %d 0 R >>",
			pageResources, layout[i].content)
		objects[layout[i].content] = stream("", content.String())
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, next)
	for n := 1; n < next; n++ {
		offsets[n] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", n, objects[n])
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", next)
	buf.WriteString("0000000000 65535 f \n")
	for n := 1; n < next; n++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[n])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", next, xref)

	return buf.Bytes()
}

// WriteFile writes a generated PDF named name into a fresh temp directory
// and returns its path
func WriteFile(t testing.TB, name string, pages ...Page) string {
	t.Helper()
	return WriteRaw(t, name, Build(pages...))
}

// WriteRaw writes arbitrary bytes into a fresh temp directory and returns the path
func WriteRaw(t testing.TB, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func stream(dict, data string) string {
	if dict != "" {
		dict += " "
	}
	return fmt.Sprintf("<< %s/Length %d >>\nstream\n%s\nendstream", dict, len(data), data)
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`)
	return r.Replace(s)
}
