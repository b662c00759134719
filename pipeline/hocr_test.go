package pipeline

import (
	"strings"
	"testing"
)

const sampleFragment = `<div class='ocr_page' id='page_1' title='image ""; bbox 0 0 200 80; ppageno 0'>
 <div class='ocr_carea' id='block_1_1' title="bbox 10 40 150 60">
  <p class='ocr_par' id='par_1_1' lang='eng'>
   <span class='ocr_line' id='line_1_1'><span class='ocrx_word' id='word_1_1'>Hello</span></span>
  </p>
 </div>
</div>`

func TestStitchHOCRSinglePage(t *testing.T) {
	doc := stitchHOCR([]hocrPage{{fragment: sampleFragment, width: 200, height: 80}})
	if !strings.Contains(doc, "id='page_1'") {
		t.Fatalf("first page id must stay page_1:\n%s", doc)
	}
	if !strings.HasPrefix(doc, "<?xml") || !strings.Contains(doc, "</html>") {
		t.Fatalf("missing document wrapper:\n%s", doc)
	}
}

func TestStitchHOCRRenumbersLaterPages(t *testing.T) {
	doc := stitchHOCR([]hocrPage{
		{fragment: sampleFragment, width: 200, height: 80},
		{fragment: sampleFragment, width: 200, height: 80},
	})
	for _, want := range []string{"id='page_2'", "id='block_2_1'", "id='par_2_1'", "id='line_2_1'", "id='word_2_1'", "ppageno 1"} {
		if !strings.Contains(doc, want) {
			t.Fatalf("missing %q in stitched document:\n%s", want, doc)
		}
	}
	if strings.Count(doc, "id='page_1'") != 1 {
		t.Fatalf("page_1 id must appear exactly once:\n%s", doc)
	}
}

func TestStitchHOCREmptyFragmentKeepsAlignment(t *testing.T) {
	doc := stitchHOCR([]hocrPage{
		{fragment: sampleFragment, width: 200, height: 80},
		{width: 640, height: 480},
		{fragment: sampleFragment, width: 200, height: 80},
	})
	if !strings.Contains(doc, "id='page_2' title='bbox 0 0 640 480; ppageno 1'") {
		t.Fatalf("failed page must yield an empty placeholder page:\n%s", doc)
	}
	if !strings.Contains(doc, "id='page_3'") {
		t.Fatalf("pages after a failed page must keep their position:\n%s", doc)
	}
}
