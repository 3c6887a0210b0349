package render_test

import (
	"errors"
	"math"
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/iburimskiy/spectral-visualizer/internal/capture"
	"github.com/iburimskiy/spectral-visualizer/internal/render"
	"github.com/iburimskiy/spectral-visualizer/internal/spectrum"
	"github.com/iburimskiy/spectral-visualizer/internal/surface/surfacetest"
	"github.com/iburimskiy/spectral-visualizer/internal/visualizer"
)

// fakeSession fills every read with a constant level.
type fakeSession struct {
	bins    int
	level   uint8
	reads   int
	closes  int
	readErr error
}

func (f *fakeSession) Bins() int { return f.bins }

func (f *fakeSession) Read(dst spectrum.Buffer) error {
	if f.readErr != nil {
		return f.readErr
	}
	f.reads++
	for i := range dst {
		dst[i] = f.level
	}
	return nil
}

func (f *fakeSession) Close() error {
	f.closes++
	return nil
}

func options() visualizer.Options {
	return visualizer.Options{
		Rand: rand.New(rand.NewSource(1)),
		Now:  func() time.Time { return time.Unix(0, 0) },
	}
}

var _ = Describe("Loop", func() {
	var (
		rec  *surfacetest.Recorder
		loop *render.Loop
	)

	newLoop := func(kind visualizer.Kind) *render.Loop {
		l, err := render.New(rec, render.Config{
			Width:   800,
			Height:  400,
			Kind:    kind,
			Options: options(),
		})
		Expect(err).NotTo(HaveOccurred())
		return l
	}

	BeforeEach(func() {
		rec = &surfacetest.Recorder{}
		loop = newLoop(visualizer.KindQuantumRipple)
	})

	Describe("construction", func() {
		It("starts idle with the default sensitivity", func() {
			Expect(loop.State()).To(Equal(render.Idle))
			Expect(loop.Sensitivity()).To(Equal(render.DefaultSensitivity))
			Expect(loop.Kind()).To(Equal(visualizer.KindQuantumRipple))
			Expect(loop.Samples()).To(BeNil())
		})

		It("rejects unknown strategies", func() {
			_, err := render.New(rec, render.Config{Width: 10, Height: 10, Kind: visualizer.Kind(77)})
			Expect(err).To(MatchError(visualizer.ErrUnknownKind))
		})
	})

	Describe("Idle and Running", func() {
		It("does not draw while idle", func() {
			loop.Tick()
			Expect(rec.Ops).To(BeEmpty())
			Expect(loop.Frames()).To(BeZero())
		})

		It("tolerates stop before any start", func() {
			Expect(loop.Stop()).To(Succeed())
			Expect(loop.Stop()).To(Succeed())
			Expect(loop.State()).To(Equal(render.Idle))
		})

		It("runs after binding and returns to idle on stop", func() {
			s := &fakeSession{bins: 512, level: 200}
			loop.Bind(s)
			Expect(loop.State()).To(Equal(render.Running))
			Expect(loop.Samples()).To(HaveLen(512))

			loop.Tick()
			Expect(s.reads).To(Equal(1))
			Expect(loop.Frames()).To(Equal(uint64(1)))
			Expect(loop.Samples()[100]).To(Equal(uint8(200)))

			Expect(loop.Stop()).To(Succeed())
			Expect(s.closes).To(Equal(1))
			Expect(loop.State()).To(Equal(render.Idle))
			Expect(loop.Samples()).To(BeNil())

			rec.Reset()
			loop.Tick()
			Expect(rec.Ops).To(BeEmpty())
		})

		It("closes the previous session when rebinding", func() {
			first := &fakeSession{bins: 64}
			second := &fakeSession{bins: 128}
			loop.Bind(first)
			loop.Bind(second)
			Expect(first.closes).To(Equal(1))
			Expect(loop.Samples()).To(HaveLen(128))
		})

		It("drops to idle when a read fails", func() {
			s := &fakeSession{bins: 32, readErr: errors.New("device unplugged")}
			loop.Bind(s)
			loop.Tick()
			Expect(loop.State()).To(Equal(render.Idle))
			Expect(s.closes).To(Equal(1))
			Expect(rec.Ops).To(BeEmpty())
		})

		It("drops to idle quietly when the session was closed underneath", func() {
			s := &fakeSession{bins: 32, readErr: capture.ErrClosed}
			loop.Bind(s)
			loop.Tick()
			Expect(loop.State()).To(Equal(render.Idle))
		})
	})

	Describe("Tick", func() {
		It("fades the whole surface before the strategy draws", func() {
			loop.Bind(&fakeSession{bins: 512, level: 90})
			loop.Tick()

			Expect(len(rec.Ops)).To(BeNumerically(">", 2))
			fade := rec.Ops[0]
			Expect(fade.Kind).To(Equal(surfacetest.OpFillRect))
			Expect(fade.Args).To(Equal([]float64{0, 0, 800, 400}))
			Expect(fade.Colors[0].A).To(Equal(uint8(51)))

			// The strategy's own trail fade follows.
			Expect(rec.Ops[1].Kind).To(Equal(surfacetest.OpFillRect))
			Expect(rec.Ops[1].Colors[0].A).To(Equal(uint8(26)))
		})

		It("dispatches stateless kinds to their drawers", func() {
			Expect(loop.Select(visualizer.KindBars)).To(Succeed())
			loop.Bind(&fakeSession{bins: 16, level: 255})
			loop.Tick()
			// frame fade + one bar per bin
			Expect(rec.Count(surfacetest.OpFillRect)).To(Equal(1 + 16))
		})

		It("never produces non-finite draw calls", func() {
			for _, k := range visualizer.Kinds() {
				Expect(loop.Select(k)).To(Succeed())
				for _, level := range []uint8{0, 128, 255} {
					loop.Bind(&fakeSession{bins: 512, level: level})
					for range 20 {
						loop.Tick()
					}
					Expect(rec.NonFinite()).To(BeEmpty(), k.String())
					rec.Reset()
				}
			}
		})
	})

	Describe("sensitivity", func() {
		DescribeTable("clamps into the supported range",
			func(in, want float64) {
				loop.SetSensitivity(in)
				Expect(loop.Sensitivity()).To(Equal(want))
			},
			Entry("below range", 0.1, render.MinSensitivity),
			Entry("above range", 9.0, render.MaxSensitivity),
			Entry("inside range", 2.2, 2.2),
			Entry("NaN", math.NaN(), render.DefaultSensitivity),
		)
	})

	Describe("selection and resize", func() {
		It("rebuilds the strategy on selection", func() {
			before := loop.Strategy()
			Expect(loop.Select(visualizer.KindConstellation)).To(Succeed())
			Expect(loop.Strategy()).NotTo(BeIdenticalTo(before))
			Expect(loop.Kind()).To(Equal(visualizer.KindConstellation))
		})

		It("keeps the selection when given an unknown kind", func() {
			Expect(loop.Select(visualizer.Kind(-5))).To(MatchError(visualizer.ErrUnknownKind))
			Expect(loop.Kind()).To(Equal(visualizer.KindQuantumRipple))
		})

		It("rebuilds the same kind with the new size", func() {
			Expect(loop.Select(visualizer.KindConstellation)).To(Succeed())
			before := loop.Strategy()

			loop.Resize(320, 200)
			Expect(loop.Strategy()).NotTo(BeIdenticalTo(before))
			Expect(loop.Kind()).To(Equal(visualizer.KindConstellation))
			w, h := loop.Strategy().Size()
			Expect([]int{w, h}).To(Equal([]int{320, 200}))

			loop.Bind(&fakeSession{bins: 512, level: 255})
			rec.Reset()
			for range 200 {
				loop.Tick()
			}
			for _, op := range rec.Filter(surfacetest.OpFillCircle) {
				Expect(op.Args[0]).To(BeNumerically(">=", 0))
				Expect(op.Args[0]).To(BeNumerically("<", 320))
				Expect(op.Args[1]).To(BeNumerically(">=", 0))
				Expect(op.Args[1]).To(BeNumerically("<", 200))
			}
		})

		It("ignores a resize to the current size", func() {
			before := loop.Strategy()
			loop.Resize(800, 400)
			Expect(loop.Strategy()).To(BeIdenticalTo(before))
		})
	})

	Describe("Click", func() {
		It("is only delivered to interactive strategies", func() {
			for _, k := range visualizer.Kinds() {
				Expect(loop.Select(k)).To(Succeed())
				Expect(loop.Click(100, 100)).To(Equal(k.Interactive()), k.String())
			}
		})
	})
})
