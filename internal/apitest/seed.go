package apitest

import "github.com/hammamikhairi/pocketchef/internal/domain"

// Seeded accounts.
const (
	Alice   = "alice"
	AlicePW = "secret1"
	Bob     = "bob"
	BobPW   = "secret2"
	Maria   = "maria"
	MariaPW = "secret3"
)

// Seeded recipe ids, in server order.
const (
	BowlID = iota + 1
	CakeID
	PastaID
	AlfredoID
	PancakesID
	StirFryID
	StewID
	ToastID
)

// Seed loads three users and eight recipes. Alice wrote recipes 3, 5 and 8.
// Likes: cake and alfredo have 5 each, the bowl 3.
func (b *Backend) Seed() {
	b.AddUser(Alice, AlicePW)
	b.AddUser(Bob, BobPW)
	b.AddUser(Maria, MariaPW)

	for _, r := range seedRecipes {
		b.AddRecipe(r)
	}
	b.SetLikes(CakeID, 5)
	b.SetLikes(AlfredoID, 5)
	b.SetLikes(BowlID, 3)
}

var seedRecipes = []domain.Recipe{
	{
		Title:       "Veggie Buddha Bowl",
		Category:    domain.CategoryVegetarian,
		PrepTime:    25,
		Image:       "https://images.unsplash.com/photo-1512621776951-a57141f2eefd",
		Ingredients: []string{"1 cup quinoa", "1 can chickpeas", "1 avocado", "2 cups spinach", "tahini"},
		Steps:       []string{"Cook the quinoa.", "Roast the chickpeas.", "Assemble and drizzle with tahini."},
		Author:      Maria,
	},
	{
		Title:       "Chocolate Lava Cake",
		Category:    domain.CategoryDessert,
		PrepTime:    35,
		Image:       "https://images.unsplash.com/photo-1606313564200-e75d5e30476c",
		Ingredients: []string{"100g dark chocolate", "2 eggs", "50g butter", "2 tbsp sugar", "1 tbsp flour"},
		Steps:       []string{"Melt chocolate with butter.", "Whisk in eggs and sugar.", "Fold in flour and bake 12 minutes."},
		Author:      Bob,
	},
	{
		Title:       "Garlic Butter Pasta",
		Category:    domain.CategoryQuick,
		PrepTime:    15,
		Image:       "https://images.unsplash.com/photo-1621996346565-e3dbc646d9a9",
		Ingredients: []string{"200g spaghetti", "4 cloves garlic", "3 tbsp butter", "parmesan"},
		Steps:       []string{"Boil the pasta.", "Fry garlic in butter.", "Toss and finish with parmesan."},
		Author:      Alice,
	},
	{
		Title:       "Chicken Alfredo",
		Category:    domain.CategoryMainCourse,
		PrepTime:    40,
		Image:       "https://images.unsplash.com/photo-1645112411341-6c4fd023714a",
		Ingredients: []string{"400g fettuccine", "2 chicken breasts", "1 cup heavy cream", "1 cup parmesan", "olive oil"},
		Steps:       []string{"Sear the chicken.", "Simmer cream and parmesan.", "Combine with the pasta."},
		Author:      Maria,
	},
	{
		Title:       "Fluffy Pancakes",
		Category:    domain.CategoryBreakfast,
		PrepTime:    20,
		Image:       "https://images.unsplash.com/photo-1567620905732-2d1ec7ab7445",
		Ingredients: []string{"1 cup flour", "1 egg", "1 cup milk", "1 tbsp sugar", "baking powder"},
		Steps:       []string{"Mix dry ingredients.", "Whisk in milk and egg.", "Cook on a hot griddle."},
		Author:      Alice,
	},
	{
		Title:       "Vegetable Stir Fry",
		Category:    domain.CategoryVegetarian,
		PrepTime:    20,
		Image:       "https://images.unsplash.com/photo-1512058564366-18510be2db19",
		Ingredients: []string{"1 bell pepper", "1 head broccoli", "2 carrots", "soy sauce", "ginger"},
		Steps:       []string{"Chop everything.", "Stir fry on high heat.", "Season with soy sauce."},
		Author:      Bob,
	},
	{
		Title:       "Beef Stew",
		Category:    domain.CategoryMainCourse,
		PrepTime:    120,
		Image:       "https://images.unsplash.com/photo-1547592180-85f173990554",
		Ingredients: []string{"800g beef chuck", "3 potatoes", "2 carrots", "1 l vegetable broth", "thyme"},
		Steps:       []string{"Brown the beef.", "Add broth and vegetables.", "Simmer for two hours."},
		Author:      Maria,
	},
	{
		Title:       "Avocado Toast",
		Category:    domain.CategoryBreakfast,
		PrepTime:    10,
		Image:       "https://images.unsplash.com/photo-1588137378633-dea1336ce1e2",
		Ingredients: []string{"2 slices sourdough", "1 avocado", "chili flakes", "lemon"},
		Steps:       []string{"Toast the bread.", "Mash avocado with lemon.", "Spread and season."},
		Author:      Alice,
	},
}
