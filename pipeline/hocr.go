package pipeline

import (
	"fmt"
	"strings"
)

// hocrPage is one page's contribution to the stitched hOCR document. An empty
// fragment stands in for a page whose recognition failed, keeping page
// positions aligned with the source PDF.
type hocrPage struct {
	fragment string
	width    int
	height   int
}

const hocrHeader = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">
<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="en" lang="en">
 <head>
  <title></title>
  <meta http-equiv="Content-Type" content="text/html;charset=utf-8"/>
  <meta name='ocr-system' content='tesseract'/>
  <meta name='ocr-capabilities' content='ocr_page ocr_carea ocr_par ocr_line ocrx_word'/>
 </head>
 <body>
`

const hocrFooter = ` </body>
</html>
`

// stitchHOCR assembles per-page hOCR fragments (as produced by Tesseract for
// a single image) into one multi-page hOCR document, renumbering the per-page
// element identifiers so they stay unique across the document.
func stitchHOCR(pages []hocrPage) string {
	var b strings.Builder
	b.WriteString(hocrHeader)
	for i, p := range pages {
		if strings.TrimSpace(p.fragment) == "" {
			fmt.Fprintf(&b, "  <div class='ocr_page' id='page_%d' title='bbox 0 0 %d %d; ppageno %d'></div>\n",
				i+1, p.width, p.height, i)
			continue
		}
		b.WriteString(renumberPage(p.fragment, i+1))
		b.WriteString("\n")
	}
	b.WriteString(hocrFooter)
	return b.String()
}

// renumberPage rewrites the single-page identifiers Tesseract emits
// (page_1, block_1_*, par_1_*, ...) for the page's position in the document.
func renumberPage(fragment string, page int) string {
	if page == 1 {
		return fragment
	}
	for _, prefix := range []string{"page_", "block_", "par_", "line_", "word_"} {
		fragment = strings.ReplaceAll(fragment,
			fmt.Sprintf("'%s1", prefix), fmt.Sprintf("'%s%d", prefix, page))
		fragment = strings.ReplaceAll(fragment,
			fmt.Sprintf(`"%s1`, prefix), fmt.Sprintf(`"%s%d`, prefix, page))
	}
	return strings.ReplaceAll(fragment, "ppageno 0", fmt.Sprintf("ppageno %d", page-1))
}
