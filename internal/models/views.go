package models

// Profile is what an account sees about itself.
type Profile struct {
	UserID      string   `json:"userId"`
	Email       string   `json:"email"`
	Username    string   `json:"username"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Photo       *Picture `json:"photo"`
	Rooms       []string `json:"rooms"`
}

type PublicAccount struct {
	Username    string   `json:"username"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Photo       *Picture `json:"photo"`
}

// PublicProfile omits the email and every security field.
type PublicProfile struct {
	UserID  string        `json:"userId"`
	Account PublicAccount `json:"account"`
	Rooms   []string      `json:"rooms"`
}

type SignInResult struct {
	UserID      string `json:"userId"`
	Token       string `json:"token"`
	Username    string `json:"username"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Email       string `json:"email"`
}

type Owner struct {
	UserID      string   `json:"userId"`
	Username    string   `json:"username"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Photo       *Picture `json:"photo"`
}

type RoomWithOwner struct {
	*Room
	Owner Owner `json:"owner"`
}

type RoomPage struct {
	Rooms            []*Room `json:"rooms"`
	Count            int     `json:"count"`
	MatchedCount     int     `json:"matchedCount"`
	TotalAllListings int     `json:"totalAllListings"`
	Page             int     `json:"page"`
	Limit            int     `json:"limit"`
}

func (u *User) Profile() *Profile {
	return &Profile{
		UserID:      u.UserID,
		Email:       u.Email,
		Username:    u.Username,
		Name:        u.Name,
		Description: u.Description,
		Photo:       u.Photo,
		Rooms:       u.roomIDs(),
	}
}

func (u *User) PublicProfile() *PublicProfile {
	return &PublicProfile{
		UserID: u.UserID,
		Account: PublicAccount{
			Username:    u.Username,
			Name:        u.Name,
			Description: u.Description,
			Photo:       u.Photo,
		},
		Rooms: u.roomIDs(),
	}
}

func (u *User) Owner() Owner {
	return Owner{
		UserID:      u.UserID,
		Username:    u.Username,
		Name:        u.Name,
		Description: u.Description,
		Photo:       u.Photo,
	}
}

func (u *User) roomIDs() []string {
	if u.Rooms == nil {
		return []string{}
	}
	return []string(u.Rooms)
}
