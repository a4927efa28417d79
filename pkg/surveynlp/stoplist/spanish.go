package stoplist

// Spanish returns the curated Spanish stop-word list.
func Spanish() []string {
	return append([]string(nil), spanishStops...)
}

// SpanishKeep returns negations and intensifiers that carry meaning in
// survey answers and must survive stop-word removal.
func SpanishKeep() []string {
	return append([]string(nil), spanishKeep...)
}

var spanishKeep = []string{
	"no", "sin", "ni", "nunca", "nada", "nadie", "tampoco", "jamás",
	"mucho", "mucha", "muchos", "muchas", "muy", "más", "menos",
	"mejor", "mejores", "peor", "peores",
	"poco", "poca", "pocos", "pocas", "demasiado", "bastante", "siempre",
}

var spanishStops = []string{
	"a", "al", "algo", "algunas", "algunos", "ante", "antes", "aquel", "aquella",
	"aquellas", "aquellos", "aquí", "así", "aun", "aunque", "cada", "casi", "como",
	"con", "contra", "cual", "cuales", "cuando", "cuanto", "de", "del", "desde",
	"donde", "dos", "durante", "e", "el", "él", "ella", "ellas", "ello", "ellos",
	"en", "entre", "era", "eran", "eres", "es", "esa", "esas", "ese", "eso", "esos",
	"esta", "está", "estaba", "estaban", "estamos", "estan", "están", "estar",
	"estas", "este", "esto", "estos", "estoy", "fue", "fueron", "fui", "ha",
	"había", "habían", "han", "has", "hasta", "hay", "he", "hemos", "la", "las",
	"le", "les", "lo", "los", "me", "mi", "mí", "mis", "mismo", "mismos", "nos",
	"nosotras", "nosotros", "nuestra", "nuestras", "nuestro", "nuestros", "o",
	"os", "otra", "otras", "otro", "otros", "para", "pero", "por", "porque",
	"que", "qué", "quien", "quienes", "se", "sea", "sean", "ser", "si", "sí",
	"sido", "sobre", "sois", "somos", "son", "soy", "su", "sus", "suya", "suyo",
	"también", "tan", "te", "tener", "tengo", "ti", "tiene", "tienen", "todo",
	"todos", "tu", "tú", "tus", "un", "una", "uno", "unas", "unos", "usted",
	"ustedes", "vosotros", "y", "ya", "yo",
}
