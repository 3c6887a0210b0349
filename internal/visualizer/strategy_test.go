package visualizer

import (
	"testing"

	. "github.com/onsi/gomega"

	"github.com/iburimskiy/spectral-visualizer/internal/spectrum"
	"github.com/iburimskiy/spectral-visualizer/internal/surface/surfacetest"
)

func TestKindParseRoundTrip(t *testing.T) {
	g := NewWithT(t)

	for _, k := range Kinds() {
		parsed, err := ParseKind(k.String())
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(parsed).To(Equal(k))

		text, err := k.MarshalText()
		g.Expect(err).NotTo(HaveOccurred())
		var back Kind
		g.Expect(back.UnmarshalText(text)).To(Succeed())
		g.Expect(back).To(Equal(k))
	}

	for in, want := range map[string]Kind{
		"rainbow-square": KindRainbowSquare,
		"quantum_ripple": KindQuantumRipple,
		"SYNAPTIC":       KindSynaptic,
	} {
		got, err := ParseKind(in)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(got).To(Equal(want))
	}

	_, err := ParseKind("spectrogram")
	g.Expect(err).To(MatchError(ErrUnknownKind))
	_, err = Kind(42).MarshalText()
	g.Expect(err).To(MatchError(ErrUnknownKind))
}

func TestKindCapabilities(t *testing.T) {
	g := NewWithT(t)

	for _, k := range Kinds() {
		g.Expect(k.Interactive()).To(Equal(k == KindSynaptic), k.String())
	}
	g.Expect(KindBars.Stateful()).To(BeFalse())
	g.Expect(KindWave.Stateful()).To(BeFalse())
	g.Expect(KindCircular.Stateful()).To(BeFalse())
	g.Expect(KindQuantumRipple.Stateful()).To(BeTrue())

	g.Expect(KindQuantumRipple.Next()).To(Equal(KindBars))
	g.Expect(KindBars.Prev()).To(Equal(KindQuantumRipple))
	g.Expect(Kind(-1).Next()).To(Equal(KindBars))
	g.Expect(KindSynaptic.Title()).To(Equal("Synaptic Network"))
}

func TestNewStrategy(t *testing.T) {
	g := NewWithT(t)
	rec := &surfacetest.Recorder{}

	_, err := NewStrategy(Kind(99), rec, 800, 400, seeded(1))
	g.Expect(err).To(MatchError(ErrUnknownKind))

	for _, k := range Kinds() {
		st, err := NewStrategy(k, rec, 640, 480, seeded(1))
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(st.Kind()).To(Equal(k))
		w, h := st.Size()
		g.Expect([2]int{w, h}).To(Equal([2]int{640, 480}))
		g.Expect(st.Visualizer() != nil).To(Equal(k.Stateful()), k.String())
	}
}

func TestStrategyRoutesInteractionByKind(t *testing.T) {
	g := NewWithT(t)
	rec := &surfacetest.Recorder{}

	for _, k := range Kinds() {
		st, err := NewStrategy(k, rec, 800, 400, seeded(1))
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(st.HandleInteraction(10, 10)).To(Equal(k.Interactive()), k.String())
	}

	st, err := NewStrategy(KindSynaptic, rec, 800, 400, seeded(1))
	g.Expect(err).NotTo(HaveOccurred())
	net := st.Visualizer().(*Synaptic)
	first := net.nodes[0]
	g.Expect(st.HandleInteraction(first.x, first.y)).To(BeTrue())
	g.Expect(net.nodes[0].intensity).To(Equal(1.0))
}

func TestFallbackDrawers(t *testing.T) {
	g := NewWithT(t)
	buf := spectrum.Buffer{0, 64, 128, 255}

	rec := &surfacetest.Recorder{}
	DrawBars(rec, 400, 200, buf, 1)
	bars := rec.Filter(surfacetest.OpFillRect)
	g.Expect(bars).To(HaveLen(len(buf)))
	g.Expect(bars[3].Args[3]).To(Equal(200.0))
	g.Expect(bars[1].Args[0]).To(Equal(400.0/4*2.5 + 1))

	rec = &surfacetest.Recorder{}
	DrawWave(rec, 400, 200, buf, 1)
	lines := rec.Filter(surfacetest.OpLine)
	g.Expect(lines).To(HaveLen(len(buf)))
	last := lines[len(lines)-1]
	g.Expect(last.Args[2:4]).To(Equal([]float64{400, 100}))

	rec = &surfacetest.Recorder{}
	DrawCircular(rec, 400, 200, buf, 2)
	g.Expect(rec.Count(surfacetest.OpStrokeCircle)).To(Equal(1))
	g.Expect(rec.Count(surfacetest.OpLine)).To(Equal(len(buf)))

	rec = &surfacetest.Recorder{}
	DrawBars(rec, 400, 200, nil, 1)
	DrawWave(rec, 400, 200, nil, 1)
	DrawCircular(rec, 400, 200, nil, 1)
	g.Expect(rec.Count(surfacetest.OpStrokeCircle)).To(Equal(1))
	g.Expect(rec.Ops).To(HaveLen(1))
}
