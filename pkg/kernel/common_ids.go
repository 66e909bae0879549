package kernel

type UserID string

func NewUserID(id string) UserID { return UserID(id) }
func (u UserID) String() string  { return string(u) }
func (u UserID) IsEmpty() bool   { return string(u) == "" }

type Email string

func NewEmail(e string) Email  { return Email(e) }
func (e Email) String() string { return string(e) }
func (e Email) IsEmpty() bool  { return string(e) == "" }
