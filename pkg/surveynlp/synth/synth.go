// Package synth generates synthetic survey responses for demos and tests.
package synth

import (
	"math/rand"
	"sort"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
)

// DefaultSize is the number of responses generated when no size is given.
const DefaultSize = 200

// Generator draws records from fixed answer banks.
type Generator struct {
	Regions   []string
	Groups    []string
	Questions []string
	// Themes maps a theme name to its answer phrases.
	Themes map[string][]string
	// Noise holds suffixes appended to answers; empty entries mean no suffix.
	Noise []string
}

// Default returns the generator with the Colombian survey answer banks.
func Default() *Generator {
	return &Generator{
		Regions: []string{"Pacifico", "Amazonas", "Andina", "Orinoquia", "Caribe"},
		Groups:  []string{"Mujeres", "Jovenes", "Afrocolombianos", "Pueblos Indigenas", "Personas Mayores"},
		Questions: []string{
			"Que necesidades prioritarias existen en su comunidad?",
			"Como evalua la atencion en salud mental en su zona?",
			"Que propuestas ha escuchado dentro de la comunidad?",
			"Que problemas enfrenta con el acceso a servicios publicos?",
		},
		Themes: map[string][]string{
			"Condiciones de vida": {
				"Falta de acceso al agua potable",
				"Viviendas en mal estado",
				"Cortes de luz frecuentes",
				"No hay recoleccion de basuras",
			},
			"Salud": {
				"No hay atencion medica cerca",
				"La salud mental es ignorada",
				"Faltan medicamentos esenciales",
				"Hay demoras en las citas",
			},
			"Trabajo e ingresos": {
				"No hay empleo local",
				"Los jovenes migran por falta de oportunidades",
				"No hay apoyo a emprendimientos",
				"La economia informal domina",
			},
			"Relacion comunidad-Estado": {
				"Falta de confianza en las instituciones",
				"No hay participacion comunitaria",
				"Nadie responde a nuestras solicitudes",
				"Nos sentimos abandonados",
			},
		},
		Noise: []string{"", "", " (segun mi experiencia)", " en mi comunidad", " personalmente hablando"},
	}
}

// themeNames returns theme names sorted so draws do not depend on map order.
func (g *Generator) themeNames() []string {
	names := make([]string, 0, len(g.Themes))
	for name := range g.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generate returns n records. The same seed always yields the same records.
func (g *Generator) Generate(n int, seed int64) []survey.Record {
	if n <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(seed))
	themes := g.themeNames()

	records := make([]survey.Record, 0, n)
	for i := 0; i < n; i++ {
		region := pick(rng, g.Regions)
		group := pick(rng, g.Groups)
		question := pick(rng, g.Questions)
		answer := pick(rng, g.Themes[pick(rng, themes)])
		records = append(records, survey.Record{
			Region:   region,
			Group:    group,
			Question: question,
			Response: answer + pick(rng, g.Noise),
		})
	}
	return records
}

func pick(rng *rand.Rand, from []string) string {
	if len(from) == 0 {
		return ""
	}
	return from[rng.Intn(len(from))]
}
