package resize

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/ivlev/mediatools/internal/system"
)

// Filters lists the resampling kernels Scaler understands.
var Filters = []string{"lanczos", "catmullrom", "bilinear", "nearest"}

// Scaler resamples images with one kernel. Lanczos goes through imaging;
// the x/image/draw kernels draw into pooled RGBA buffers.
type Scaler struct {
	filter string
	kernel draw.Interpolator
	pool   *system.ImagePool
}

// NewScaler returns a scaler for filter; empty means lanczos.
func NewScaler(filter string) (*Scaler, error) {
	filter = strings.ToLower(strings.TrimSpace(filter))
	s := &Scaler{filter: filter, pool: system.NewImagePool()}
	switch filter {
	case "", "lanczos":
		s.filter = "lanczos"
	case "catmullrom":
		s.kernel = draw.CatmullRom
	case "bilinear":
		s.kernel = draw.BiLinear
	case "nearest":
		s.kernel = draw.NearestNeighbor
	default:
		return nil, fmt.Errorf("unknown filter %q (want one of %s)", filter, strings.Join(Filters, ", "))
	}
	return s, nil
}

// Filter returns the kernel name.
func (s *Scaler) Filter() string {
	return s.filter
}

// Scale resamples src to size. release must be called once the result has
// been encoded.
func (s *Scaler) Scale(src image.Image, size Geometry) (image.Image, func()) {
	if s.kernel == nil {
		return imaging.Resize(src, size.Width, size.Height, imaging.Lanczos), func() {}
	}
	dst := s.pool.Get(image.Rect(0, 0, size.Width, size.Height))
	s.kernel.Scale(dst, dst.Rect, src, src.Bounds(), draw.Src, nil)
	return dst, func() { s.pool.Put(dst) }
}
