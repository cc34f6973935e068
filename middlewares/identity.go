package middlewares

import "github.com/gin-gonic/gin"

type Role string

const (
	RoleClient   Role = "client"
	RolePlombier Role = "plombier"
)

// Identity is the single verified-caller shape both credential kinds reduce
// to before any store access. Phone is only present for clients.
type Identity struct {
	UID   string
	Role  Role
	Phone string
}

const identityKey = "identity"

func setIdentity(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
}

// GetIdentity returns the verified caller placed in the context by one of the
// auth middlewares.
func GetIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
