package render

// InstructionKind selects how an instruction is drawn
type InstructionKind string

const (
	// KindText draws Text with its baseline at (X, Y)
	KindText InstructionKind = "text"
	// KindCell draws a W x H box at top-left (X, Y) with Text aligned inside
	KindCell InstructionKind = "cell"
)

// Instruction is one draw operation
type Instruction struct {
	Kind     InstructionKind `json:"kind"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	W        float64         `json:"w,omitempty"`
	H        float64         `json:"h,omitempty"`
	Text     string          `json:"text"`
	FontSize float64         `json:"font_size"`
	Bold     bool            `json:"bold,omitempty"`
	Align    string          `json:"align,omitempty"`
	Border   bool            `json:"border,omitempty"`
	Fill     bool            `json:"fill,omitempty"`
}

// Page is an ordered list of instructions
type Page struct {
	Number       int           `json:"number"` // 1-based
	HasFooter    bool          `json:"has_footer"`
	Instructions []Instruction `json:"instructions"`
}

// Document is the renderer output, consumed once by the exporter
type Document struct {
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	PageWidth  float64 `json:"page_width"`
	PageHeight float64 `json:"page_height"`
	Pages      []Page  `json:"pages"`
}

// PageCount returns the number of pages
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Texts returns the text of every instruction on the page, in draw order
func (p *Page) Texts() []string {
	out := make([]string, 0, len(p.Instructions))
	for _, ins := range p.Instructions {
		out = append(out, ins.Text)
	}
	return out
}
