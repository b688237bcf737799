package catalog

// Animal mirrors the catalog API's animal resource, trimmed to what the pages render.
type Animal struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Species     string  `json:"species"`
	Breeds      Breeds  `json:"breeds"`
	Age         string  `json:"age"`
	Gender      string  `json:"gender"`
	Size        string  `json:"size"`
	Status      string  `json:"status"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	Photos      []Photo `json:"photos"`
	Contact     Contact `json:"contact"`
	PublishedAt string  `json:"published_at"`
}

type Breeds struct {
	Primary   string  `json:"primary"`
	Secondary *string `json:"secondary"`
	Mixed     bool    `json:"mixed"`
	Unknown   bool    `json:"unknown"`
}

type Photo struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
	Full   string `json:"full"`
}

type Contact struct {
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
}

type Address struct {
	City     string `json:"city"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
}

func (a Animal) HasPhotos() bool {
	return len(a.Photos) > 0
}

// CoverPhoto returns the medium rendition of the first photo, falling back to larger ones.
func (a Animal) CoverPhoto() string {
	if !a.HasPhotos() {
		return ""
	}
	p := a.Photos[0]
	for _, u := range []string{p.Medium, p.Large, p.Full, p.Small} {
		if u != "" {
			return u
		}
	}
	return ""
}

type ListQuery struct {
	Type     string
	Location string
	Limit    int
	Page     int
}

type listResponse struct {
	Animals []Animal `json:"animals"`
}

type animalResponse struct {
	Animal Animal `json:"animal"`
}
