package mvc

// Page 分页参数
type Page struct {
	Num  int `json:"num" query:"num"`
	Size int `json:"size" query:"size"`
}

func (p *Page) Normalize() {
	if p.Num <= 0 {
		p.Num = 1
	}
	if p.Size <= 0 || p.Size > 200 {
		p.Size = 20
	}
}

func (p *Page) Offset() int {
	return (p.Num - 1) * p.Size
}
