package blocksite

import (
	"html/template"
	"sync"

	"github.com/lemmi/blocksite/section"
)

// Blocks is the ordered section list of a page.
type Blocks []*Block

// HTML renders every block in order.
func (bs Blocks) HTML() template.HTML {
	var out template.HTML
	for _, b := range bs {
		out += b.HTML()
	}
	return out
}

// Block is one section of a page. Its HTML is rendered on first use and
// cached, so a template may call it any number of times.
type Block struct {
	section  section.Section
	index    int
	prev     *Block
	next     *Block
	once     sync.Once
	html     template.HTML
	renderer ContentRenderer
}

func newBlock(s section.Section, index int, r ContentRenderer) *Block {
	return &Block{section: s, index: index, renderer: r}
}

func (b *Block) ID() string {
	return b.section.ID
}
func (b *Block) Type() string {
	return b.section.Type
}
func (b *Block) Title() string {
	return b.section.Title
}
func (b *Block) Index() int {
	return b.index
}
func (b *Block) Section() section.Section {
	return b.section
}
func (b *Block) HTML() template.HTML {
	b.once.Do(func() {
		b.html = b.renderer.Render()
	})
	return b.html
}

// Empty reports whether the block renders to nothing.
func (b *Block) Empty() bool {
	return b.HTML() == ""
}
func (b *Block) Next() *Block {
	return b.next
}
func (b *Block) Prev() *Block {
	return b.prev
}

// link chains the blocks so templates can look at their neighbours.
func (bs Blocks) link() {
	for i, b := range bs {
		if i > 0 {
			b.prev = bs[i-1]
		}
		if i < len(bs)-1 {
			b.next = bs[i+1]
		}
	}
}
