package shahmat

import (
	"io"

	svg "github.com/ajstarks/svgo"
)

const (
	svgSquareSize = 45
	svgLightFill  = "fill:rgb(240,217,181)"
	svgDarkFill   = "fill:rgb(181,136,99)"
	svgPieceStyle = "font-size:34px;text-anchor:middle"
)

// RenderSVG writes an SVG rendition of the position to w, with rank 8 at
// the top. Interactive rendering stays with the widget; this is the export
// form used for sharing and debugging positions.
func RenderSVG(w io.Writer, pos *Position) {
	canvas := svg.New(w)
	canvas.Start(8*svgSquareSize, 8*svgSquareSize)
	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			x := file * svgSquareSize
			y := (7 - rank) * svgSquareSize
			fill := svgLightFill
			if (file+rank)%2 == 0 {
				fill = svgDarkFill
			}
			canvas.Rect(x, y, svgSquareSize, svgSquareSize, fill)
			piece := pos.board.PieceAt(Square{File: file, Rank: rank})
			if piece == NoPiece {
				continue
			}
			canvas.Text(x+svgSquareSize/2, y+svgSquareSize*3/4, string(piece.Glyph()), svgPieceStyle)
		}
	}
	canvas.End()
}
