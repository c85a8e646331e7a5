package blurhash

import "math"

// ─── cosine basis ─────────────────────────────────────────────
// Basis (i, j) at pixel (px, py) is cos(π·i·px/w) · cos(π·j·py/h).
// Both directions share one table layout: row k holds cos(π·k·p/n)
// for p in [0, n).

func cosTable(components, n int) []float64 {
	t := make([]float64, components*n)
	for k := 0; k < components; k++ {
		base := k * n
		for p := 0; p < n; p++ {
			t[base+p] = math.Cos(math.Pi * float64(k) * float64(p) / float64(n))
		}
	}
	return t
}

// project computes the nx·ny coefficients of src in linear light,
// row-major (vertical frequency outer).  Index 0 is the DC term.
func project(src PixelBuffer, nx, ny int) [][3]float64 {
	w, h := src.Width, src.Height
	stride := src.Mode.Channels()
	pix := src.Pix
	cosX := cosTable(nx, w)
	cosY := cosTable(ny, h)
	scale := 1 / float64(w*h)

	factors := make([][3]float64, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			norm := 2.0
			if i == 0 && j == 0 {
				norm = 1
			}
			cx := cosX[i*w : (i+1)*w]
			var r, g, b float64
			for y := 0; y < h; y++ {
				cy := cosY[j*h+y]
				off := y * w * stride
				for x := 0; x < w; x++ {
					basis := norm * cx[x] * cy
					r += basis * srgbLinear[pix[off]]
					g += basis * srgbLinear[pix[off+1]]
					b += basis * srgbLinear[pix[off+2]]
					off += stride
				}
			}
			factors[j*nx+i] = [3]float64{r * scale, g * scale, b * scale}
		}
	}
	return factors
}

// reconstruct sums the weighted basis at every pixel of a w×h grid and
// returns gamma-encoded RGB bytes.
func reconstruct(colors [][3]float64, nx, ny, w, h int) []byte {
	cosX := cosTable(nx, w)
	cosY := cosTable(ny, h)
	out := make([]byte, w*h*3)

	di := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b float64
			for j := 0; j < ny; j++ {
				cy := cosY[j*h+y]
				row := colors[j*nx : (j+1)*nx]
				for i := range row {
					basis := cosX[i*w+x] * cy
					r += row[i][0] * basis
					g += row[i][1] * basis
					b += row[i][2] * basis
				}
			}
			out[di] = byte(linearToSRGB(r))
			out[di+1] = byte(linearToSRGB(g))
			out[di+2] = byte(linearToSRGB(b))
			di += 3
		}
	}
	return out
}
