package content

import (
	"strings"
	"testing"
)

func TestExtractorRun(t *testing.T) {
	extractor := NewExtractor()

	htmlContent := `
	<!DOCTYPE html>
	<html>
	<head>
		<title>ブログ記事</title>
	</head>
	<body>
		<header>
			<h1>Blog Header</h1>
			<nav>Navigation</nav>
		</header>
		<main>
			<article>
				<h1>Entry Title</h1>
				<p>This is the body of the blog entry. It carries several paragraphs of meaningful prose so the readability algorithm recognizes it as the main content area of the page.</p>
				<p>A second paragraph continues the entry with more detail, giving the extractor enough material to work with and to clear its minimum content threshold comfortably.</p>
				<p>A third paragraph wraps up the entry with closing thoughts, adding further weight to the article body relative to the page chrome around it.</p>
			</article>
		</main>
		<aside>
			<div>Advertisement</div>
		</aside>
		<footer>
			<p>Copyright 2024</p>
		</footer>
	</body>
	</html>
	`

	result, err := extractor.Run([]byte(htmlContent), "http://test_blog.hatenablog.com/entry/2013/09/02/112823")
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if result == "" {
		t.Errorf("Expected non-empty result")
	}

	if !strings.Contains(result, "body of the blog entry") {
		t.Errorf("Expected extracted content to contain the entry text")
	}
	if strings.Contains(result, "Advertisement") {
		t.Errorf("Expected extracted content to exclude the sidebar")
	}
	if strings.Contains(result, "Copyright 2024") {
		t.Errorf("Expected extracted content to exclude the footer")
	}
}

func TestExtractorRunResolvesRelativeLinks(t *testing.T) {
	extractor := NewExtractor()

	htmlContent := `
	<!DOCTYPE html>
	<html>
	<head><title>Entry</title></head>
	<body>
		<article>
			<h1>Entry With Links</h1>
			<p>This entry links to <a href="/entry/2013/08/01/other">another entry</a> on the same blog, and carries enough surrounding prose for the extractor to treat it as the main article content of the page.</p>
			<p>More prose follows to keep the article comfortably above the extraction threshold so the test does not depend on borderline scoring behavior.</p>
			<p>And a final paragraph for good measure, because short pages are exactly what the readability scoring tends to reject.</p>
		</article>
	</body>
	</html>
	`

	result, err := extractor.Run([]byte(htmlContent), "http://test_blog.hatenablog.com/entry/2013/09/02/112823")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.Contains(result, "http://test_blog.hatenablog.com/entry/2013/08/01/other") {
		t.Errorf("Expected relative link to be resolved against the page URL, got: %s", result)
	}
}

func TestExtractorRunEmptyData(t *testing.T) {
	extractor := NewExtractor()

	result, err := extractor.Run(nil, "")
	if err == nil {
		t.Errorf("Expected error for empty data")
	}
	if result != "" {
		t.Errorf("Expected empty result for empty data")
	}
	if err.Error() != "HTML data is empty" {
		t.Errorf("Expected error message 'HTML data is empty', got '%s'", err.Error())
	}
}

func TestExtractorRunScriptRemoval(t *testing.T) {
	extractor := NewExtractor()

	htmlContent := `
	<!DOCTYPE html>
	<html>
	<head><title>Entry</title></head>
	<body>
		<script>var trackingCode = "analytics";</script>
		<article>
			<h1>Clean Entry</h1>
			<p>This is the meaningful prose of the entry, which the extractor should keep while dropping all of the scripting noise surrounding it in the document.</p>
			<p>Additional prose keeps the article above the extraction threshold and makes the content clearly dominant over the page scaffolding.</p>
			<p>A final paragraph rounds out the entry body with enough text for stable extraction behavior across library versions.</p>
		</article>
	</body>
	</html>
	`

	result, err := extractor.Run([]byte(htmlContent), "")
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if !strings.Contains(result, "meaningful prose of the entry") {
		t.Errorf("Expected extracted content to contain the entry text")
	}
	if strings.Contains(result, "trackingCode") {
		t.Errorf("Expected extracted content to exclude script content")
	}
}
