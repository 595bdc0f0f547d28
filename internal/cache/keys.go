package cache

// Cache key namespaces. The namespace prefix guarantees keys never collide
// across stages even when fingerprints coincide.
const (
	NSTextExtract = "text_extract"
	NSPDFOCR      = "pdf_ocr"
	NSImageOCR    = "image_ocr"
	NSTransform   = "openai_transform"
	NSFullParse   = "full_parse"
)

// Key composes a namespaced cache key from a content fingerprint.
func Key(namespace, fp string) string {
	return namespace + ":" + fp
}
