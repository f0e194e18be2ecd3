package catalog

import "strings"

// cookingTerms 新手友善的烹飪術語表
var cookingTerms = map[string]string{
	// 刀工
	"dice":       "Cut food into small, uniform cubes (usually 1/4 to 1/2 inch). Like cutting something into tiny squares.",
	"chop":       "Cut food into pieces of roughly the same size. Doesn't need to be perfect - just reasonably uniform.",
	"mince":      "Cut food into very tiny pieces, as small as you can get them. Often used for garlic or herbs.",
	"slice":      "Cut food into thin, flat pieces. Think of cutting a loaf of bread.",
	"julienne":   "Cut food into thin matchstick-shaped strips. Like cutting vegetables for stir-fry.",
	"cube":       "Cut food into larger cubes than dicing, usually about 1 inch on each side.",
	"chiffonade": "Stack leaves, roll them up, and slice into thin ribbons. Great for herbs like basil.",

	// 烹調方式
	"saute":  "Cook food quickly in a small amount of oil or butter over medium-high heat, stirring often. The pan should be hot!",
	"simmer": "Cook liquid just below boiling. You'll see small bubbles around the edges, but not a rolling boil.",
	"boil":   "Heat liquid until large bubbles rapidly break the surface. Water boils at 212°F (100°C).",
	"steam":  "Cook food using the vapor from boiling water. Food doesn't touch the water, just the steam.",
	"roast":  "Cook food in the oven using dry heat. Usually at higher temperatures (375°F+) for browning.",
	"bake":   "Cook food in the oven with dry heat, usually at moderate temperatures. Like making cookies or bread.",
	"broil":  "Cook food using direct heat from above (usually the top heating element in your oven). Like an upside-down grill.",
	"grill":  "Cook food over direct heat (usually from below). Can be on a BBQ or a stovetop grill pan.",
	"braise": "Brown meat in fat, then cook it slowly in a covered pot with liquid. Makes tough meat tender!",
	"sear":   "Cook food (especially meat) at very high heat to create a brown, flavorful crust. Usually done quickly.",
	"poach":  "Gently cook food in barely-simmering liquid (not boiling). Common for eggs and fish.",
	"blanch": "Briefly boil food, then immediately plunge it into ice water to stop cooking. Keeps vegetables bright green.",
	"fry":    "Cook food in hot oil or fat. Can be shallow (a little oil) or deep (food completely submerged).",

	// 前置處理
	"whisk":    "Beat ingredients together rapidly using a whisk (the wire tool) to add air and blend thoroughly.",
	"beat":     "Mix ingredients vigorously to combine them and add air. Makes things light and fluffy.",
	"fold":     "Gently combine ingredients using a lifting and turning motion. Keeps things airy (like when adding egg whites).",
	"knead":    "Work dough by pressing, folding, and turning it. Develops gluten for bread-making.",
	"marinate": "Soak food in a seasoned liquid before cooking. Adds flavor and can tenderize meat.",
	"baste":    "Spoon or brush liquid (like pan juices) over food while it cooks. Keeps it moist and adds flavor.",
	"season":   "Add salt, pepper, herbs, or spices to food to enhance the flavor.",
	"deglaze":  "Add liquid to a hot pan to loosen the brown bits stuck to the bottom. Creates delicious sauces!",
	"reduce":   "Simmer liquid to evaporate some of it, making it thicker and more concentrated in flavor.",
	"zest":     "Remove the colored outer peel of citrus fruit (not the white part!). Contains flavorful oils.",
	"strain":   "Pour liquid through a sieve or strainer to remove solid pieces.",
	"drain":    "Pour off liquid from food, usually using a colander or strainer.",

	// 食材狀態
	"al dente":     "Italian for 'to the tooth.' Pasta that's cooked but still slightly firm when you bite it. Not mushy!",
	"golden brown": "Cooked until the surface is light brown in color, not dark. Looks delicious and appetizing.",
	"caramelized":  "Cooked until natural sugars turn brown and sweet. Gives a rich, deep flavor.",
	"soft peaks":   "When you lift a whisk from whipped cream/egg whites, the peaks curl over gently. Not quite stiff.",
	"stiff peaks":  "When you lift a whisk out, the peaks stand straight up. Fully whipped!",

	// 份量
	"pinch": "The amount you can hold between your thumb and forefinger. Very small - less than 1/8 teaspoon.",
	"dash":  "A small amount, usually 2-3 drops of liquid or a quick shake from a shaker.",
}

// LookupTerm 查詢烹飪術語，不分大小寫
func LookupTerm(term string) (string, bool) {
	def, ok := cookingTerms[strings.ToLower(strings.TrimSpace(term))]
	return def, ok
}

// AllTerms 回傳所有支援的術語
func AllTerms() []string {
	terms := make([]string, 0, len(cookingTerms))
	for t := range cookingTerms {
		terms = append(terms, t)
	}
	return terms
}
