package v1

import "strconv"

// BasePath is where the API is mounted; links are absolute from the host root.
const BasePath = "/api"

type Link struct {
	Href string `json:"href"`
}

type UserLinks struct {
	Self   Link `json:"self"`
	Delete Link `json:"delete"`
	Create Link `json:"create"`
}

type SelfLink struct {
	Self Link `json:"self"`
}

func userURL(id int64) string    { return BasePath + "/users/" + strconv.FormatInt(id, 10) }
func clientURL(id int64) string  { return BasePath + "/clients/" + strconv.FormatInt(id, 10) }
func productURL(id int64) string { return BasePath + "/products/" + strconv.FormatInt(id, 10) }

func userLinks(id int64) UserLinks {
	return UserLinks{
		Self:   Link{Href: userURL(id)},
		Delete: Link{Href: userURL(id)},
		Create: Link{Href: BasePath + "/users"},
	}
}

func clientLinks(id int64) SelfLink  { return SelfLink{Self: Link{Href: clientURL(id)}} }
func productLinks(id int64) SelfLink { return SelfLink{Self: Link{Href: productURL(id)}} }
