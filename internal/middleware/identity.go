package middleware

// identity.go defines helpers shared across middleware files. currentUserID
// pulls the user id that JWTAuth stored in the Echo context; rate-limit keys
// and cache keys use it so one account never observes another's traffic.

import (
    "fmt"

    "github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user id as a string, or "anon"
// when the request carries no valid token. JWTAuth stores the sub claim
// as whatever type the JWT decoder produced, so the value is stringified.
func currentUserID(c echo.Context) string {
    v := c.Get("user_id")
    if v == nil {
        return "anon"
    }
    switch t := v.(type) {
    case string:
        if t != "" {
            return t
        }
    case float64:
        return fmt.Sprintf("%.0f", t)
    case uint64:
        return fmt.Sprintf("%d", t)
    case int64:
        return fmt.Sprintf("%d", t)
    }
    return "anon"
}
