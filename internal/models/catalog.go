package models

// Category groups habits by theme
type Category struct {
	Name string
	Icon string
}

// Color is a named swatch for habit display
type Color struct {
	Name string
	Hex  string
}

// Template is a predefined habit users can start from
type Template struct {
	Name         string
	Category     string
	Icon         string
	Color        string
	Description  string
	TargetDays   int
	Frequency    Frequency
	ReminderTime string
}

const (
	CategoryHealth       = "Health & Fitness"
	CategoryLearning     = "Learning"
	CategoryProductivity = "Productivity"
	CategoryMindfulness  = "Mindfulness"
	CategorySocial       = "Social"
	CategoryCreative     = "Creative"
	CategoryFinancial    = "Financial"
	CategoryHome         = "Home"
	CategoryOther        = "Other"
)

var Categories = []Category{
	{Name: CategoryHealth, Icon: "heart.fill"},
	{Name: CategoryLearning, Icon: "book.fill"},
	{Name: CategoryProductivity, Icon: "checkmark.circle.fill"},
	{Name: CategoryMindfulness, Icon: "leaf.fill"},
	{Name: CategorySocial, Icon: "person.2.fill"},
	{Name: CategoryCreative, Icon: "paintbrush.fill"},
	{Name: CategoryFinancial, Icon: "dollarsign.circle.fill"},
	{Name: CategoryHome, Icon: "house.fill"},
	{Name: CategoryOther, Icon: "star.fill"},
}

var Colors = []Color{
	{Name: "Red", Hex: "#FF3B30"},
	{Name: "Orange", Hex: "#FF9500"},
	{Name: "Yellow", Hex: "#FFCC00"},
	{Name: "Green", Hex: "#34C759"},
	{Name: "Mint", Hex: "#00C7BE"},
	{Name: "Teal", Hex: "#30B0C7"},
	{Name: "Cyan", Hex: "#32D74B"},
	{Name: "Blue", Hex: "#007AFF"},
	{Name: "Indigo", Hex: "#5856D6"},
	{Name: "Purple", Hex: "#AF52DE"},
	{Name: "Pink", Hex: "#FF2D92"},
	{Name: "Brown", Hex: "#A2845E"},
	{Name: "Gray", Hex: "#8E8E93"},
}

var Templates = []Template{
	{Name: "Morning Exercise", Category: CategoryHealth, Icon: "figure.run", Color: "#FF3B30", Description: "Start your day with physical activity", TargetDays: 30, Frequency: FrequencyDaily, ReminderTime: "07:00"},
	{Name: "Drink Water", Category: CategoryHealth, Icon: "drop.fill", Color: "#007AFF", Description: "Stay hydrated throughout the day", TargetDays: 30, Frequency: FrequencyDaily},
	{Name: "Get 8 Hours Sleep", Category: CategoryHealth, Icon: "bed.double.fill", Color: "#5856D6", Description: "Maintain a healthy sleep schedule", TargetDays: 30, Frequency: FrequencyDaily, ReminderTime: "22:00"},
	{Name: "Meditation", Category: CategoryMindfulness, Icon: "leaf.fill", Color: "#34C759", Description: "Practice mindfulness and meditation", TargetDays: 30, Frequency: FrequencyDaily, ReminderTime: "08:00"},
	{Name: "Read Books", Category: CategoryLearning, Icon: "book.fill", Color: "#FF9500", Description: "Read for at least 30 minutes daily", TargetDays: 30, Frequency: FrequencyDaily, ReminderTime: "20:00"},
	{Name: "Learn New Language", Category: CategoryLearning, Icon: "graduationcap.fill", Color: "#AF52DE", Description: "Practice a new language daily", TargetDays: 30, Frequency: FrequencyDaily, ReminderTime: "19:00"},
	{Name: "Plan Your Day", Category: CategoryProductivity, Icon: "list.bullet", Color: "#FFCC00", Description: "Plan your tasks and goals for the day", TargetDays: 30, Frequency: FrequencyDaily, ReminderTime: "08:30"},
	{Name: "No Social Media", Category: CategoryProductivity, Icon: "iphone", Color: "#8E8E93", Description: "Avoid social media during work hours", TargetDays: 30, Frequency: FrequencyDaily},
	{Name: "Write Journal", Category: CategoryCreative, Icon: "pencil", Color: "#00C7BE", Description: "Write in your journal daily", TargetDays: 30, Frequency: FrequencyDaily, ReminderTime: "21:00"},
	{Name: "Practice Music", Category: CategoryCreative, Icon: "music.note", Color: "#FF2D92", Description: "Practice your musical instrument", TargetDays: 30, Frequency: FrequencyDaily, ReminderTime: "18:00"},
	{Name: "Call Family", Category: CategorySocial, Icon: "phone.fill", Color: "#A2845E", Description: "Stay connected with family members", TargetDays: 30, Frequency: FrequencyWeekly, ReminderTime: "19:00"},
	{Name: "Meet Friends", Category: CategorySocial, Icon: "person.2.fill", Color: "#30B0C7", Description: "Spend quality time with friends", TargetDays: 30, Frequency: FrequencyWeekly},
	{Name: "Track Expenses", Category: CategoryFinancial, Icon: "dollarsign.circle.fill", Color: "#34C759", Description: "Keep track of your daily expenses", TargetDays: 30, Frequency: FrequencyDaily, ReminderTime: "22:00"},
	{Name: "Save Money", Category: CategoryFinancial, Icon: "banknote.fill", Color: "#FFCC00", Description: "Save a small amount daily", TargetDays: 30, Frequency: FrequencyDaily},
	{Name: "Clean Room", Category: CategoryHome, Icon: "broom.fill", Color: "#8E8E93", Description: "Keep your living space tidy", TargetDays: 30, Frequency: FrequencyDaily, ReminderTime: "20:00"},
	{Name: "Cook Healthy Meals", Category: CategoryHome, Icon: "fork.knife", Color: "#FF9500", Description: "Prepare healthy meals at home", TargetDays: 30, Frequency: FrequencyDaily, ReminderTime: "18:00"},
}

// TemplatesFor returns the templates of one category, in catalog order
func TemplatesFor(category string) []Template {
	var out []Template
	for _, t := range Templates {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// FindTemplate looks up a template by its exact name
func FindTemplate(name string) (Template, bool) {
	for _, t := range Templates {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}
