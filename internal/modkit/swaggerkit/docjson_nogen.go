//go:build !swag

package swaggerkit

var docReader = skeleton
