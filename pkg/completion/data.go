package completion

// UnitEntry pairs the abbreviation recipes are written with against the
// spelled-out name shown as detail.
type UnitEntry struct {
	Short string
	Long  string
}

// timeUnits are offered unfiltered after a timer trigger.
var timeUnits = []UnitEntry{
	{"s", "seconds"},
	{"sec", "seconds"},
	{"secs", "seconds"},
	{"second", "seconds"},
	{"seconds", "seconds"},
	{"min", "minutes"},
	{"mins", "minutes"},
	{"minute", "minutes"},
	{"minutes", "minutes"},
	{"h", "hours"},
	{"hr", "hours"},
	{"hrs", "hours"},
	{"hour", "hours"},
	{"hours", "hours"},
}

// measurementUnits are offered after a '%' trigger, filtered by prefix.
var measurementUnits = []UnitEntry{
	{"tsp", "teaspoon"},
	{"tbsp", "tablespoon"},
	{"cup", "cup"},
	{"cups", "cups"},
	{"ml", "milliliter"},
	{"cl", "centiliter"},
	{"dl", "deciliter"},
	{"l", "liter"},
	{"g", "gram"},
	{"kg", "kilogram"},
	{"mg", "milligram"},
	{"oz", "ounce"},
	{"lb", "pound"},
	{"fl oz", "fluid ounce"},
	{"pt", "pint"},
	{"qt", "quart"},
	{"gal", "gallon"},
	{"pinch", "pinch"},
	{"dash", "dash"},
	{"drop", "drop"},
	{"clove", "clove"},
	{"slice", "slice"},
	{"piece", "piece"},
	{"can", "can"},
	{"jar", "jar"},
	{"stick", "stick"},
	{"bunch", "bunch"},
	{"handful", "handful"},
}

// commonCookware backs cookware completion when the recipe itself has
// nothing matching.
var commonCookware = []string{
	"pot",
	"pan",
	"skillet",
	"saucepan",
	"wok",
	"dutch oven",
	"stockpot",
	"frying pan",
	"bowl",
	"mixing bowl",
	"large bowl",
	"small bowl",
	"cutting board",
	"knife",
	"chef's knife",
	"paring knife",
	"oven",
	"stove",
	"grill",
	"blender",
	"food processor",
	"mixer",
	"stand mixer",
	"whisk",
	"spatula",
	"wooden spoon",
	"ladle",
	"tongs",
	"colander",
	"strainer",
	"sieve",
	"baking sheet",
	"baking dish",
	"roasting pan",
	"casserole dish",
	"measuring cup",
	"measuring spoons",
	"rolling pin",
	"grater",
	"peeler",
	"can opener",
	"thermometer",
	"timer",
	"foil",
	"parchment paper",
	"plastic wrap",
}

// Dictionaries holds the static candidate sources, optionally extended
// by workspace configuration.
type Dictionaries struct {
	TimeUnits        []UnitEntry
	MeasurementUnits []UnitEntry
	Cookware         []string
}

// DefaultDictionaries returns the built-in dictionaries. The returned
// slices are shared; callers extending them must copy first.
func DefaultDictionaries() *Dictionaries {
	return &Dictionaries{
		TimeUnits:        timeUnits,
		MeasurementUnits: measurementUnits,
		Cookware:         commonCookware,
	}
}

// Extend returns a copy of d with extra units and cookware appended.
func (d *Dictionaries) Extend(units []UnitEntry, cookware []string) *Dictionaries {
	out := &Dictionaries{
		TimeUnits:        d.TimeUnits,
		MeasurementUnits: append(append([]UnitEntry{}, d.MeasurementUnits...), units...),
		Cookware:         append(append([]string{}, d.Cookware...), cookware...),
	}
	return out
}
