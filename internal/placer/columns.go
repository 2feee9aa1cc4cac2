package placer

import "github.com/pdfo-lang/pdfo/internal/geom"

// currentColumn returns a copy of the column the cursor is in — safe for
// read-only checks (inner width, remaining height) that don't need to
// mutate the physically-owned PdfColumn.
func (pl *Placer) currentColumn(st *state) PdfColumn {
	return *pl.currentColumnPtr(st)
}

// currentColumnPtr returns the physically-owned column the cursor is in,
// starting the first page first if none has been opened yet.
func (pl *Placer) currentColumnPtr(st *state) *PdfColumn {
	if !st.havePage {
		pl.startPage(st)
	}
	return &st.doc.Pages[st.pageIdx].Columns[st.colIdx]
}

// ensureColumnRoom guarantees the current column has at least height of
// room left, advancing to the next column (opening a new page if the
// current one's columns are exhausted) otherwise — spec.md §4.6's column/
// page-flow step, run before a word or line is placed into it.
func (pl *Placer) ensureColumnRoom(st *state, height float64) error {
	col := pl.currentColumnPtr(st)
	if height <= 0 || col.HeightUsed+height <= col.Inner.Height {
		return nil
	}
	pl.advanceColumn(st)
	return nil
}

// startPage opens the document's first page, or a fresh one, by pulling the
// next geometry off the Page template and laying out its column grid.
func (pl *Placer) startPage(st *state) {
	pg := pl.H.Page.Next()
	rects := buildColumnRects(pg)
	page := PdfPage{
		Size:           pg.Size,
		MarginLeft:     pg.MarginLeft,
		MarginTop:      pg.MarginTop,
		MarginRight:    pg.MarginRight,
		MarginBottom:   pg.MarginBottom,
		Rows:           pg.Rows,
		Cols:           pg.Cols,
		FillRowsFirst:  pg.FillRowsFirst,
		ColumnRects:    rects,
		Columns:        make([]PdfColumn, len(rects)),
	}
	for i, r := range rects {
		page.Columns[i] = PdfColumn{Inner: r}
	}
	st.doc.Pages = append(st.doc.Pages, page)
	st.pageIdx = len(st.doc.Pages) - 1
	st.colIdx = 0
	st.havePage = true
	// A fresh page's column template restarts at its first entry; the
	// paragraph/line/word templates deliberately do not (see Hierarchy's
	// column-does-not-reset-paragraph note), so only Column.Reset here.
	pl.H.Column.Reset()
}

// advanceColumn moves the cursor to the next column in the current page's
// fill order, opening a new page once every column on this one is used.
func (pl *Placer) advanceColumn(st *state) {
	page := &st.doc.Pages[st.pageIdx]
	st.colIdx++
	pl.H.Column.Next()
	if st.colIdx >= len(page.Columns) {
		pl.startPage(st)
	}
}

// buildColumnRects lays out pg's Rows x Cols grid within the page's margin-
// inset inner rectangle and returns the rectangles in fill order: the
// default is top-to-bottom within a column then left-to-right across
// columns (column-major); FillRowsFirst swaps to left-to-right within a row
// then top-to-bottom across rows (row-major) — spec.md §4.6's "filling
// order" note.
func buildColumnRects(pg PageGeometry) []geom.Rect {
	rows, cols := pg.Rows, pg.Cols
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	page := geom.NewRect(0, 0, pg.Size.Width, pg.Size.Height)
	inner := page.Inset(pg.MarginLeft, pg.MarginTop, pg.MarginRight, pg.MarginBottom)
	cellW := inner.Width / float64(cols)
	cellH := inner.Height / float64(rows)

	cell := func(row, col int) geom.Rect {
		return geom.NewRect(inner.Left()+float64(col)*cellW, inner.Top()+float64(row)*cellH, cellW, cellH)
	}

	rects := make([]geom.Rect, 0, rows*cols)
	if pg.FillRowsFirst {
		for row := 0; row < rows; row++ {
			for col := 0; col < cols; col++ {
				rects = append(rects, cell(row, col))
			}
		}
		return rects
	}
	for col := 0; col < cols; col++ {
		for row := 0; row < rows; row++ {
			rects = append(rects, cell(row, col))
		}
	}
	return rects
}
