package kinetics_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/limnolab/redoxsim/internal/kinetics"
	"github.com/limnolab/redoxsim/internal/reactor"
)

// columnState is a live acetate-fed column shortly after setup: all
// electron acceptors present, seed biomass in every pool.
func columnState() reactor.State {
	x := make(reactor.State, reactor.NumChannels)
	x[reactor.Acetate] = 8e-3
	x[reactor.Oxygen] = 2.8e-4
	x[reactor.Aerobes] = 2e-6
	x[reactor.Nitrate] = 1e-3
	x[reactor.NitrateReducers] = 1.5e-6
	x[reactor.Sulfate] = 3e-3
	x[reactor.SulfateReducers] = 1e-6
	x[reactor.Methanogens] = 1e-6
	x[reactor.Methanotrophs] = 1e-6
	x[reactor.Hydrogenotrophs] = 5e-6
	x[reactor.Hydrogen] = 1e-3
	x[reactor.CarbonDioxide] = 1e-3
	return x
}

var _ = Describe("rate factors", func() {
	It("stay strictly inside (0,1) for positive concentrations", func() {
		for _, c := range []float64{1e-9, 1e-6, 1e-3, 1.0, 1e3} {
			for _, k := range []float64{1e-6, 1e-3, 1.0} {
				Expect(kinetics.Monod(c, k)).To(BeNumerically(">", 0))
				Expect(kinetics.Monod(c, k)).To(BeNumerically("<", 1))
				Expect(kinetics.Inhibition(c, k)).To(BeNumerically(">", 0))
				Expect(kinetics.Inhibition(c, k)).To(BeNumerically("<", 1))
			}
		}
	})

	It("are exact at zero concentration", func() {
		Expect(kinetics.Monod(0, 1e-4)).To(Equal(0.0))
		Expect(kinetics.Inhibition(0, 1e-4)).To(Equal(1.0))
	})

	It("cross one half at the half-saturation constant", func() {
		Expect(kinetics.Monod(2e-4, 2e-4)).To(BeNumerically("~", 0.5, 1e-15))
		Expect(kinetics.Inhibition(2e-4, 2e-4)).To(BeNumerically("~", 0.5, 1e-15))
	})
})

var _ = Describe("Network", func() {
	var net *kinetics.Network

	BeforeEach(func() {
		var err error
		net, err = kinetics.New(kinetics.Default())
		Expect(err).NotTo(HaveOccurred())
	})

	It("reports the reactor dimension", func() {
		Expect(net.Dim()).To(Equal(reactor.NumChannels))
	})

	It("does not mutate its input state", func() {
		x := columnState()
		before := x.Clone()
		net.Derive(x, 0)
		Expect([]float64(x)).To(Equal([]float64(before)))
	})

	It("is autonomous: the same state gives the same derivative at any time", func() {
		x := columnState()
		a := net.Derive(x, 0)
		b := net.Derive(x, 57.3)
		Expect([]float64(a)).To(Equal([]float64(b)))
	})

	It("sums the per-process contributions exactly", func() {
		x := columnState()
		total := make(reactor.State, reactor.NumChannels)
		for proc := 0; proc < kinetics.NumProcesses; proc++ {
			c := net.Contribution(proc, x)
			for i := range total {
				total[i] += c[i]
			}
		}

		dx := net.Derive(x, 0)
		for i := range dx {
			Expect(dx[i]).To(BeNumerically("~", total[i], 1e-18), reactor.Channels[i].Name)
		}
	})

	It("keeps each yield row on its own rate", func() {
		// Only the aerobes have substrate and biomass here, so every
		// flux must come from the aerobic row alone.
		x := make(reactor.State, reactor.NumChannels)
		x[reactor.Acetate] = 8e-3
		x[reactor.Oxygen] = 2.8e-4
		x[reactor.Aerobes] = 2e-6

		r := net.Rates(x)
		Expect(r[kinetics.Aerobic]).To(BeNumerically(">", 0))

		dx := net.Derive(x, 0)
		Expect(dx[reactor.Acetate]).To(BeNumerically("~", -0.417*r[kinetics.Aerobic], 1e-18))
		Expect(dx[reactor.Oxygen]).To(BeNumerically("~", -0.5*r[kinetics.Aerobic], 1e-18))
		Expect(dx[reactor.Aerobes]).To(BeNumerically("~", 0.067*r[kinetics.Aerobic], 1e-18))
		Expect(dx[reactor.DIC]).To(BeNumerically("~", 0.5*r[kinetics.Aerobic], 1e-18))

		for _, ch := range []int{
			reactor.Nitrate, reactor.Nitrogen, reactor.NitrateReducers,
			reactor.Sulfate, reactor.SulfateReducers, reactor.Methanogens,
			reactor.Methanotrophs, reactor.Hydrogenotrophs, reactor.Methane,
			reactor.Hydrogen, reactor.CarbonDioxide,
		} {
			Expect(dx[ch]).To(BeZero(), reactor.Channels[ch].Name)
		}
	})

	It("shuts the acetate-fed processes off at zero acetate", func() {
		x := columnState()
		x[reactor.Acetate] = 0

		r := net.Rates(x)
		Expect(r[kinetics.Aerobic]).To(BeZero())
		Expect(r[kinetics.Denitrification]).To(BeZero())
		Expect(r[kinetics.SulfateReduction]).To(BeZero())
		Expect(r[kinetics.Methanogenesis]).To(BeZero())
		// hydrogenotrophy feeds on H2 and CO2, not acetate
		Expect(r[kinetics.Hydrogenotrophy]).To(BeNumerically(">", 0))
	})

	It("suppresses methanogenesis while sulfate is high", func() {
		p := kinetics.Default()
		inh := kinetics.Inhibition(3e-3, p.Methanogenesis.KSulfateInhibit)
		Expect(inh).To(BeNumerically("<", 0.01))
	})

	It("exposes the factor breakdown of every process", func() {
		x := columnState()
		wantCount := map[int]int{
			kinetics.Aerobic:          2,
			kinetics.Denitrification:  3,
			kinetics.SulfateReduction: 3,
			kinetics.Methanogenesis:   3,
			kinetics.Methanotrophy:    2,
			kinetics.Hydrogenotrophy:  4,
		}
		for proc := 0; proc < kinetics.NumProcesses; proc++ {
			fs := net.Factors(proc, x)
			Expect(fs).To(HaveLen(wantCount[proc]), kinetics.ProcessNames[proc])
			for _, f := range fs {
				Expect(f.Value).To(BeNumerically(">=", 0), f.Label)
				Expect(f.Value).To(BeNumerically("<=", 1), f.Label)
			}
		}
	})

	It("rejects non-positive constants", func() {
		p := kinetics.Default()
		p.SulfateReduction.KSulfate = 0

		_, err := kinetics.New(p)
		Expect(err).To(MatchError(reactor.ErrConstantNotPositive))

		var cfgErr *reactor.ConfigError
		Expect(errors.As(err, &cfgErr)).To(BeTrue())
		Expect(cfgErr.Field).To(Equal("sulfate_reduction.k_sulfate"))
	})

	It("allows a zero maximum rate as a process knockout", func() {
		p := kinetics.Default()
		p.SulfateReduction.MuMax = 0

		knocked, err := kinetics.New(p)
		Expect(err).NotTo(HaveOccurred())

		r := knocked.Rates(columnState())
		Expect(r[kinetics.SulfateReduction]).To(BeZero())
	})
})
