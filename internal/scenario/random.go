package scenario

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/stolasapp/logincheck/internal/pages"
)

// Random credential generation constants.
const (
	minPasswordLength = 6
	maxExtraLength    = 10
)

// Random returns n negative scenarios generated from seed, alternating
// between a wrong username with any password and the valid username with a
// wrong password. The same seed always yields the same scenarios.
func Random(seed uint64, n int, valid Credential) []Scenario {
	faker := gofakeit.New(seed)
	out := make([]Scenario, 0, n)
	for i := range n {
		if i%2 == 0 {
			out = append(out, Scenario{
				Name: fmt.Sprintf("randomUsername%d", i),
				Credential: Credential{
					Username: differentFrom(valid.Username, faker.Username),
					Password: randomPassword(faker),
				},
				Expect: Expectation{Error: pages.TextInvalidUsername},
			})
			continue
		}
		out = append(out, Scenario{
			Name: fmt.Sprintf("randomPassword%d", i),
			Credential: Credential{
				Username: valid.Username,
				Password: differentFrom(valid.Password, func() string { return randomPassword(faker) }),
			},
			Expect: Expectation{Error: pages.TextInvalidPassword},
		})
	}
	return out
}

func randomPassword(faker *gofakeit.Faker) string {
	return faker.Password(true, true, true, false, false, minPasswordLength+faker.IntN(maxExtraLength))
}

// differentFrom draws from gen until the value is non-empty and not equal to
// avoid.
func differentFrom(avoid string, gen func() string) string {
	for {
		if v := gen(); v != "" && v != avoid {
			return v
		}
	}
}
