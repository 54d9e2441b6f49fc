package catalog

// defaultValues is the built-in list of life values, in display order.
var defaultValues = []struct {
	name        string
	description string
}{
	{"Family", "Close relationships with the people you call family"},
	{"Health", "Physical and mental well-being"},
	{"Love", "Giving and receiving affection"},
	{"Friendship", "Loyal, lasting bonds with others"},
	{"Freedom", "Making your own choices"},
	{"Security", "Stability and safety for you and those close to you"},
	{"Honesty", "Being truthful with yourself and others"},
	{"Respect", "Treating others and yourself with dignity"},
	{"Growth", "Learning and becoming a better version of yourself"},
	{"Wisdom", "Understanding life through knowledge and experience"},
	{"Achievement", "Reaching goals you set for yourself"},
	{"Independence", "Relying on your own abilities"},
	{"Creativity", "Bringing new ideas and things into the world"},
	{"Adventure", "Seeking new and exciting experiences"},
	{"Peace", "Inner calm and harmony"},
	{"Joy", "Delight in everyday life"},
	{"Kindness", "Being generous and considerate"},
	{"Compassion", "Caring about the suffering of others"},
	{"Justice", "Fairness and equal treatment"},
	{"Responsibility", "Being accountable for your actions"},
	{"Loyalty", "Standing by people and commitments"},
	{"Courage", "Acting despite fear"},
	{"Faith", "Trust in something greater than yourself"},
	{"Tradition", "Honouring customs and heritage"},
	{"Community", "Belonging to and contributing to a group"},
	{"Career", "Meaningful and rewarding work"},
	{"Wealth", "Financial abundance"},
	{"Recognition", "Being appreciated for what you do"},
	{"Influence", "Shaping decisions and outcomes"},
	{"Beauty", "Appreciating aesthetics in art and nature"},
	{"Nature", "Connection with the natural world"},
	{"Knowledge", "Curiosity and the pursuit of understanding"},
	{"Humour", "Seeing the lighter side of things"},
	{"Balance", "Harmony between work, rest and relationships"},
	{"Self-respect", "Valuing your own worth"},
	{"Authenticity", "Living true to who you are"},
	{"Gratitude", "Appreciating what you have"},
	{"Simplicity", "Living with less and focusing on what matters"},
	{"Service", "Helping others and contributing to society"},
	{"Pleasure", "Enjoying life's comforts"},
}

// DefaultEntries returns the built-in catalog entries with stable ids.
func DefaultEntries() []Entity {
	out := make([]Entity, 0, len(defaultValues))
	for _, v := range defaultValues {
		out = append(out, Entity{ID: StableID(v.name), Name: v.name, Description: v.description})
	}
	return out
}

// Default builds the built-in catalog.
func Default() *Catalog {
	c, err := New(DefaultEntries())
	if err != nil {
		panic("catalog: invalid built-in values: " + err.Error())
	}
	return c
}
