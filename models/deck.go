package models

// Slide is one page of the presentation. Body lines are rendered one paragraph each.
// Mono slides draw the body inside a rounded box in a smaller fixed-width size.
// Image, when set, is a PNG placed below the body.
type Slide struct {
	Title string
	Body  []string
	Mono  bool
	Image string
}

// Deck is the ordered slide sequence produced by the deck builder.
type Deck struct {
	Title  string
	Author string
	Slides []Slide
}
