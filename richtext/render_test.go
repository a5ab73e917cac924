package richtext

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, src string) *Document {
	t.Helper()
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(src), &doc))
	return &doc
}

func TestRenderEmpty(t *testing.T) {
	assert.Equal(t, "", string(Render(nil)))
	assert.Equal(t, "", string(Render(&Document{})))
	assert.Equal(t, "", string(Render(decode(t, `{"root":{"children":[]}}`))))
	assert.Equal(t, "", string(Render(decode(t, `{"root":null}`))))
	assert.Equal(t, "", string(Render(decode(t, `{"root":{"children":[null, null]}}`))))
}

func TestRenderParagraph(t *testing.T) {
	doc := decode(t, `{"root":{"children":[
		{"type":"paragraph","children":[
			{"type":"text","text":"Hello "},
			{"type":"text","text":"world","format":1},
			{"type":"linebreak"},
			{"type":"text","text":"<b>&"}
		]}
	]}}`)
	assert.Equal(t, `<p>Hello <strong>world</strong><br>&lt;b&gt;&amp;</p>`, string(Render(doc)))
}

func TestRenderTextFormatNesting(t *testing.T) {
	tests := []struct {
		format int
		want   string
	}{
		{0, "x"},
		{FormatBold, "<strong>x</strong>"},
		{FormatItalic, "<em>x</em>"},
		{FormatBold | FormatItalic, "<strong><em>x</em></strong>"},
		// reserved bits are ignored
		{FormatBold | FormatItalic | 1<<2 | 1<<4, "<strong><em>x</em></strong>"},
	}
	for _, tt := range tests {
		got := formatText("x", tt.format)
		assert.Equal(t, tt.want, got, "format %b", tt.format)
	}

	out := string(Render(decode(t, `{"root":{"children":[{"type":"paragraph","children":[{"type":"text","text":"both","format":3}]}]}}`)))
	assert.Equal(t, 1, strings.Count(out, "<strong>"))
	assert.Equal(t, 1, strings.Count(out, "<em>"))
	assert.Contains(t, out, "<strong><em>both</em></strong>")
}

func TestRenderHeadingLevel(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want string
	}{
		{"h1", `"tag":"h1"`, "h1"},
		{"h6", `"tag":"h6"`, "h6"},
		{"numeric", `"tag":4`, "h4"},
		{"numeric string", `"tag":"3"`, "h3"},
		{"level key", `"level":5`, "h5"},
		{"missing", ``, "h2"},
		{"too high", `"tag":"h9"`, "h2"},
		{"zero", `"tag":0`, "h2"},
		{"negative", `"tag":-1`, "h2"},
		{"garbage", `"tag":"title"`, "h2"},
		{"object", `"tag":{"x":1}`, "h2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := `"type":"heading","children":[{"type":"text","text":"T"}]`
			if tt.tag != "" {
				fields += "," + tt.tag
			}
			out := string(Render(decode(t, `{"root":{"children":[{`+fields+`}]}}`)))
			assert.Equal(t, "<"+tt.want+">T</"+tt.want+">", out)
		})
	}
}

func TestRenderList(t *testing.T) {
	item := func(s string) string {
		return `{"type":"listitem","children":[{"type":"paragraph","children":[{"type":"text","text":"` + s + `"}]}]}`
	}
	unordered := decode(t, `{"root":{"children":[{"type":"list","children":[`+item("a")+`,`+item("b")+`]}]}}`)
	assert.Equal(t, "<ul><li>a</li><li>b</li></ul>", string(Render(unordered)))

	ordered := decode(t, `{"root":{"children":[{"type":"list","listType":"number","children":[`+item("a")+`,null,{"type":"bogus"}]}]}}`)
	assert.Equal(t, "<ol><li>a</li></ol>", string(Render(ordered)))

	nested := decode(t, `{"root":{"children":[{"type":"list","children":[
		{"type":"listitem","children":[{"type":"text","text":"top"},{"type":"list","listType":"ordered","children":[`+item("inner")+`]}]}
	]}]}}`)
	assert.Equal(t, "<ul><li>top<ol><li>inner</li></ol></li></ul>", string(Render(nested)))
}

func TestRenderLink(t *testing.T) {
	tests := []struct {
		name string
		node string
		want string
	}{
		{"url", `{"type":"link","url":"/about","children":[{"type":"text","text":"About"}]}`, `<a href="/about">About</a>`},
		{"fields url", `{"type":"link","fields":{"url":"https://example.com","newTab":true},"children":[{"type":"text","text":"Ex"}]}`, `<a href="https://example.com" target="_blank" rel="noopener noreferrer">Ex</a>`},
		{"missing url", `{"type":"link","children":[{"type":"text","text":"x"}]}`, `<a href="#">x</a>`},
		{"unsafe scheme", `{"type":"link","url":"javascript:alert(1)","children":[{"type":"text","text":"x"}]}`, `<a href="#">x</a>`},
		{"escaped", `{"type":"link","url":"/q?a=1&b=\"2\"","children":[]}`, `<a href="/q?a=1&amp;b=&#34;2&#34;"></a>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := decode(t, `{"root":{"children":[{"type":"paragraph","children":[`+tt.node+`]}]}}`)
			assert.Equal(t, "<p>"+tt.want+"</p>", string(Render(doc)))
		})
	}
}

func TestRenderSkipsUnknownAndMalformed(t *testing.T) {
	doc := decode(t, `{"root":{"children":[
		{"type":"upload","value":{"id":1}},
		"not a node",
		42,
		{"children":[{"type":"text","text":"no type"}]},
		{"type":"paragraph","children":"oops"},
		{"type":"paragraph","children":[{"type":"text","text":7,"format":"bold"}]},
		{"type":"paragraph","children":[{"type":"text","text":"kept","format":"2"}]}
	]}}`)
	assert.Equal(t, "<p></p><p>7</p><p><em>kept</em></p>", string(Render(doc)))
}

func TestParse(t *testing.T) {
	assert.Nil(t, Parse([]byte(`[1,2]`)))
	assert.Nil(t, Parse([]byte(`nope`)))
	doc := Parse([]byte(`{"root":{"children":[{"type":"paragraph","children":[{"type":"text","text":"hi"}]}]}}`))
	require.NotNil(t, doc)
	assert.False(t, doc.IsEmpty())
	assert.Equal(t, "hi", PlainText(doc))
	assert.True(t, (*Document)(nil).IsEmpty())
}

func TestRenderConcurrent(t *testing.T) {
	doc := decode(t, `{"root":{"children":[{"type":"heading","tag":"h3","children":[{"type":"text","text":"T","format":3}]}]}}`)
	want := Render(doc)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, Render(doc))
		}()
	}
	wg.Wait()
}

func TestDocumentFieldIsLenient(t *testing.T) {
	var rec struct {
		Title   string    `json:"title"`
		Content *Document `json:"content"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","content":"oops"}`), &rec))
	assert.Equal(t, "x", rec.Title)
	assert.True(t, rec.Content.IsEmpty())
	assert.Empty(t, Render(rec.Content))

	require.NoError(t, json.Unmarshal([]byte(`{"content":{"root":[1]}}`), &rec))
	assert.True(t, rec.Content.IsEmpty())
}
