package animal

import (
	"testing"
)

// fixedDraws hands out preset draws in order
type fixedDraws struct {
	t     *testing.T
	draws []float64
	used  int
}

func (f *fixedDraws) Float64() float64 {
	if f.used >= len(f.draws) {
		f.t.Fatalf("unexpected draw %d", f.used+1)
	}
	d := f.draws[f.used]
	f.used++
	return d
}

func draws(t *testing.T, d ...float64) *fixedDraws {
	return &fixedDraws{t: t, draws: d}
}

func TestNewGrouperIsAgeZeroFemale(t *testing.T) {
	g := NewGrouper()
	if g.Age != 0 || g.Sex != Female {
		t.Errorf("NewGrouper() = %+v, want age 0 female", g)
	}
}

func TestAgeZeroAlwaysAlive(t *testing.T) {
	rc := NewRateCache()
	for _, pressure := range []float64{0, 0.5, 0.99} {
		g := NewGrouper()
		u := draws(t)
		if !g.DetermineAlive(u, rc, pressure) {
			t.Errorf("age 0 grouper died with fishing pressure %v", pressure)
		}
		if u.used != 0 {
			t.Errorf("age 0 survival consumed %d draws", u.used)
		}
	}
}

func TestDetermineAlive(t *testing.T) {
	tests := []struct {
		name     string
		age      int
		pressure float64
		draw     float64
		want     bool
	}{
		{"draw above mortality", 1, 0, 0.5, true},
		{"draw below mortality", 1, 0, 0.4, false},
		{"fishing tips the balance", 1, 0.1, 0.5, false},
		{"draw equal to mortality dies", 1, 0, 0.4298, false},
		{"old fish survive more", 16, 0, 0.2, true},
	}

	rc := NewRateCache()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Grouper{Age: tt.age, Sex: Female}
			if got := g.DetermineAlive(draws(t, tt.draw), rc, tt.pressure); got != tt.want {
				t.Errorf("DetermineAlive() = %v, want %v (mortality %v)", got, tt.want, rc.Mortality(tt.age))
			}
		})
	}
}

// The transition happens when the draw is above the stay female curve
func TestDetermineSexDirection(t *testing.T) {
	rc := NewRateCache()

	g := Grouper{Age: 10, Sex: Female}
	g.DetermineSex(draws(t, 0.4), rc)
	if g.Sex != Female {
		t.Errorf("draw 0.4 below curve 0.5 changed sex")
	}

	g.DetermineSex(draws(t, 0.6), rc)
	if g.Sex != Male {
		t.Errorf("draw 0.6 above curve 0.5 did not change sex")
	}

	young := Grouper{Age: 2, Sex: Female}
	young.DetermineSex(draws(t, 0.999), rc)
	if young.Sex != Female {
		t.Errorf("age 2 female changed sex with draw 0.999 (curve %v)", rc.SexChangeProbability(2))
	}
}

func TestMaleStaysMale(t *testing.T) {
	rc := NewRateCache()
	g := Grouper{Age: 12, Sex: Male}
	u := draws(t)
	for i := 0; i < 20; i++ {
		g.DetermineSex(u, rc)
		g.IncrementAge()
		if g.Sex != Male {
			t.Fatalf("male changed back to %q at age %d", g.Sex, g.Age)
		}
	}
	if u.used != 0 {
		t.Errorf("male sex check consumed %d draws", u.used)
	}
}

func TestCalculateOffspringCount(t *testing.T) {
	rc := NewRateCache()

	tests := []struct {
		name  string
		fish  Grouper
		draws []float64
		want  int
	}{
		{"male", Grouper{Age: 6, Sex: Male}, nil, 0},
		{"too young", Grouper{Age: 2, Sex: Female}, nil, 0},
		{"spawns", Grouper{Age: 3, Sex: Female}, []float64{0.01}, 2295},
		{"does not spawn", Grouper{Age: 3, Sex: Female}, []float64{0.5}, 0},
		{"older female", Grouper{Age: 10, Sex: Female}, []float64{0.9}, 16469},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := draws(t, tt.draws...)
			if got := tt.fish.CalculateOffspringCount(u, rc); got != tt.want {
				t.Errorf("CalculateOffspringCount() = %d, want %d", got, tt.want)
			}
			if u.used != len(tt.draws) {
				t.Errorf("used %d draws, want %d", u.used, len(tt.draws))
			}
		})
	}
}

func TestIncrementAge(t *testing.T) {
	g := NewGrouper()
	for i := 1; i <= 5; i++ {
		g.IncrementAge()
		if g.Age != i {
			t.Fatalf("Age = %d, want %d", g.Age, i)
		}
	}
}
