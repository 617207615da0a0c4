package season

// Category 照護用途的標準植物類別
type Category string

const (
	CategoryRose      Category = "rose"
	CategoryFruit     Category = "fruit"
	CategoryBulb      Category = "bulb"
	CategoryShrub     Category = "shrub"
	CategoryClimber   Category = "climber"
	CategoryVegetable Category = "vegetable"
	CategoryAnnual    Category = "annual"
	CategoryGrass     Category = "grass"
	CategoryTree      Category = "tree"
	CategoryHerb      Category = "herb"
	CategoryPerennial Category = "perennial"
)

// DefaultCategory 沒有任何規則命中時使用
const DefaultCategory = CategoryPerennial

// MonthSet 月份集合（1..12）
type MonthSet uint16

// Months 由月份建立集合，忽略範圍外的值
func Months(months ...int) MonthSet {
	var s MonthSet
	for _, m := range months {
		if m >= 1 && m <= 12 {
			s |= 1 << uint(m)
		}
	}
	return s
}

// Has 月份是否在集合中
func (s MonthSet) Has(month int) bool {
	if month < 1 || month > 12 {
		return false
	}
	return s&(1<<uint(month)) != 0
}

// List 依月份順序列出
func (s MonthSet) List() []int {
	out := make([]int, 0, 12)
	for m := 1; m <= 12; m++ {
		if s.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

// Pattern 類別的季節模式；三個集合不要求互斥
type Pattern struct {
	Dormant   MonthSet
	Fruiting  MonthSet
	Flowering MonthSet
	Active    Stage // 不在任何集合時的生長階段
}

var patterns = map[Category]Pattern{
	CategoryRose: {
		Dormant:   Months(12, 1, 2),
		Flowering: Months(6, 7, 8, 9),
		Fruiting:  Months(10, 11),
		Active:    StageMature,
	},
	CategoryFruit: {
		Dormant:   Months(12, 1, 2),
		Flowering: Months(4, 5),
		Fruiting:  Months(7, 8, 9, 10),
		Active:    StageMature,
	},
	CategoryBulb: {
		Dormant:   Months(7, 8, 9),
		Flowering: Months(2, 3, 4, 5),
		Active:    StageJuvenile,
	},
	CategoryShrub: {
		Dormant:   Months(12, 1, 2),
		Flowering: Months(5, 6, 7),
		Fruiting:  Months(9, 10),
		Active:    StageMature,
	},
	CategoryClimber: {
		Dormant:   Months(12, 1, 2),
		Flowering: Months(5, 6, 7, 8),
		Active:    StageMature,
	},
	CategoryVegetable: {
		Dormant:   Months(11, 12, 1, 2),
		Flowering: Months(5, 6),
		Fruiting:  Months(7, 8, 9, 10),
		Active:    StageSeedling,
	},
	CategoryAnnual: {
		Dormant:   Months(11, 12, 1, 2, 3),
		Flowering: Months(6, 7, 8, 9),
		Fruiting:  Months(10),
		Active:    StageSeedling,
	},
	CategoryGrass: {
		Dormant:   Months(12, 1, 2),
		Flowering: Months(7, 8, 9),
		Active:    StageMature,
	},
	CategoryTree: {
		Dormant:   Months(11, 12, 1, 2, 3),
		Flowering: Months(4, 5),
		Fruiting:  Months(9, 10),
		Active:    StageMature,
	},
	CategoryHerb: {
		Dormant:   Months(12, 1, 2),
		Flowering: Months(6, 7, 8),
		Active:    StageMature,
	},
	CategoryPerennial: {
		Dormant:   Months(12, 1, 2),
		Flowering: Months(5, 6, 7, 8, 9),
		Active:    StageMature,
	},
}

// PatternFor 取得類別的季節模式，未知類別回傳多年生模式
func PatternFor(c Category) Pattern {
	if p, ok := patterns[c]; ok {
		return p
	}
	return patterns[DefaultCategory]
}

// keywordRule 中層名稱關鍵字覆寫規則
type keywordRule struct {
	keyword  string
	category Category
}

// overrideRules 依宣告順序比對 MiddleLevel（小寫、子字串），第一個命中者生效。
// 蔬菜排在水果前面，"cherry tomato" 才會是蔬菜；"mint" 排在 "pepper"、"pear" 之前；
// "peach"、"pear" 排在 "pea" 之前。
var overrideRules = []keywordRule{
	{"rosemary", CategoryHerb},
	{"primrose", CategoryPerennial},
	{"rose", CategoryRose},
	{"sweet pea", CategoryAnnual},
	{"mint", CategoryHerb},
	{"plumbago", CategoryShrub},
	{"tomato", CategoryVegetable},
	{"pepper", CategoryVegetable},
	{"chilli", CategoryVegetable},
	{"courgette", CategoryVegetable},
	{"squash", CategoryVegetable},
	{"pumpkin", CategoryVegetable},
	{"cucumber", CategoryVegetable},
	{"bean", CategoryVegetable},
	{"lettuce", CategoryVegetable},
	{"potato", CategoryVegetable},
	{"onion", CategoryVegetable},
	{"garlic", CategoryVegetable},
	{"carrot", CategoryVegetable},
	{"cabbage", CategoryVegetable},
	{"kale", CategoryVegetable},
	{"apple", CategoryFruit},
	{"peach", CategoryFruit},
	{"pear", CategoryFruit},
	{"plum", CategoryFruit},
	{"cherry", CategoryFruit},
	{"fig", CategoryFruit},
	{"strawberry", CategoryFruit},
	{"raspberry", CategoryFruit},
	{"blueberry", CategoryFruit},
	{"blackcurrant", CategoryFruit},
	{"gooseberry", CategoryFruit},
	{"pea", CategoryVegetable},
	{"tulip", CategoryBulb},
	{"daffodil", CategoryBulb},
	{"narcissus", CategoryBulb},
	{"crocus", CategoryBulb},
	{"snowdrop", CategoryBulb},
	{"hyacinth", CategoryBulb},
	{"allium", CategoryBulb},
	{"lily", CategoryBulb},
	{"clematis", CategoryClimber},
	{"wisteria", CategoryClimber},
	{"honeysuckle", CategoryClimber},
	{"jasmine", CategoryClimber},
	{"ivy", CategoryClimber},
	{"lavender", CategoryHerb},
	{"thyme", CategoryHerb},
	{"basil", CategoryHerb},
	{"sage", CategoryHerb},
	{"parsley", CategoryHerb},
	{"hydrangea", CategoryShrub},
	{"buddleja", CategoryShrub},
	{"camellia", CategoryShrub},
	{"rhododendron", CategoryShrub},
	{"azalea", CategoryShrub},
	{"fuchsia", CategoryShrub},
	{"hebe", CategoryShrub},
	{"maple", CategoryTree},
	{"birch", CategoryTree},
	{"magnolia", CategoryTree},
	{"oak", CategoryTree},
	{"miscanthus", CategoryGrass},
	{"fescue", CategoryGrass},
	{"carex", CategoryGrass},
	{"petunia", CategoryAnnual},
	{"marigold", CategoryAnnual},
	{"cosmos", CategoryAnnual},
	{"sunflower", CategoryAnnual},
	{"nasturtium", CategoryAnnual},
}

// categoryOrder 類別名稱作為子字串比對時的順序
var categoryOrder = []Category{
	CategoryRose,
	CategoryFruit,
	CategoryBulb,
	CategoryShrub,
	CategoryClimber,
	CategoryVegetable,
	CategoryAnnual,
	CategoryGrass,
	CategoryTree,
	CategoryHerb,
	CategoryPerennial,
}
