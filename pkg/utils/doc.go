// Package utils holds small helpers shared by the HTTP handlers: the JSON
// response envelope, input trimming and email masking for log output.
//
//	utils.RespondError(w, r, err)          // status from the error code
//	utils.RespondMessage(w, r, "Logged out") // {"success":true,"message":"Logged out"}
//
//	utils.MaskEmail("john@example.com")    // "j***n@example.com"
package utils
