package faleproxy

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Result is the rewritten page handed back to the display client.
type Result struct {
	Success     bool     `json:"success"`
	Content     string   `json:"content"`
	Title       string   `json:"title"`
	Styles      []string `json:"styles"`
	OriginalURL string   `json:"originalUrl,omitempty"`
}

// Transformer rewrites fetched HTML. It holds no per-request state and is
// safe for concurrent use.
type Transformer struct {
	chain       Chain
	passthrough []string
	logger      *zap.Logger
}

// NewTransformer returns a Transformer using chain and the passthrough scheme
// set. Empty arguments fall back to the defaults.
func NewTransformer(chain Chain, passthrough []string, logger *zap.Logger) *Transformer {
	if len(chain) == 0 {
		chain = DefaultChain()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transformer{chain: chain, passthrough: passthrough, logger: logger}
}

// Transform parses body, collects its stylesheets, applies the substitution
// chain and URL absolutization in one walk and renders the <body> contents.
func (t *Transformer) Transform(body string, base *url.URL) (*Result, error) {
	// scripting off so <noscript> markup is parsed into elements, not raw text
	root, err := html.ParseWithOptions(strings.NewReader(body), html.ParseOptionEnableScripting(false))
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	doc := goquery.NewDocumentFromNode(root)

	abs := NewAbsolutizer(base, t.passthrough)
	styles := t.collectStyles(doc, abs)

	for _, n := range doc.Nodes {
		t.rewrite(n, abs)
	}

	content, err := doc.Find("body").First().Html()
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	return &Result{
		Success: true,
		Content: content,
		Title:   doc.Find("title").First().Text(),
		Styles:  styles,
	}, nil
}

// collectStyles returns external stylesheet URLs and inline <style> text in
// document order. Inline text is copied verbatim.
func (t *Transformer) collectStyles(doc *goquery.Document, abs *Absolutizer) []string {
	styles := make([]string, 0)
	doc.Find("link[rel], style").Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "style" {
			styles = append(styles, s.Text())
			return
		}
		if !isStylesheet(s.AttrOr("rel", "")) {
			return
		}
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}
		styles = append(styles, t.absolutize(abs, href))
	})
	return styles
}

// isStylesheet reports whether the rel token list names a stylesheet.
// Tokens are ASCII case-insensitive.
func isStylesheet(rel string) bool {
	for _, token := range strings.Fields(rel) {
		if strings.EqualFold(token, "stylesheet") {
			return true
		}
	}
	return false
}

func (t *Transformer) rewrite(n *html.Node, abs *Absolutizer) {
	switch n.Type {
	case html.TextNode:
		n.Data = t.chain.Apply(n.Data)
	case html.ElementNode:
		t.rewriteAttrs(n, abs)
		// raw text, left exactly as served
		if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		t.rewrite(c, abs)
	}
}

func (t *Transformer) rewriteAttrs(n *html.Node, abs *Absolutizer) {
	for i := range n.Attr {
		attr := &n.Attr[i]
		if attr.Namespace != "" {
			continue
		}
		switch {
		case n.DataAtom == atom.Img && attr.Key == "alt",
			n.DataAtom == atom.Meta && attr.Key == "content":
			attr.Val = t.chain.Apply(attr.Val)
		case (n.DataAtom == atom.A || n.DataAtom == atom.Link) && attr.Key == "href",
			(n.DataAtom == atom.Img || n.DataAtom == atom.Script) && attr.Key == "src":
			attr.Val = t.absolutize(abs, attr.Val)
		}
	}
}

func (t *Transformer) absolutize(abs *Absolutizer, ref string) string {
	resolved, err := abs.Absolutize(ref)
	if err != nil {
		t.logger.Warn("keeping unresolvable url", zap.String("url", ref), zap.Error(err))
	}
	return resolved
}
