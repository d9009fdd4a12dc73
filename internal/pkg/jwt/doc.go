// Package jwt issues and verifies the access tokens handed out after a
// successful OTP confirmation. Claims carry the user id and the login
// identifier; context helpers thread verified claims through a request.
package jwt
