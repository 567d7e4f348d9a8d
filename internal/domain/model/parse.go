package model

// ParseRole converts a wire string into a Role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// ParseCustodian converts a wire string into a Custodian.
func ParseCustodian(s string) (Custodian, bool) {
	c := Custodian(s)
	return c, c.Valid()
}

// ParseRouteAction converts a wire string into a RouteAction.
func ParseRouteAction(s string) (RouteAction, bool) {
	switch a := RouteAction(s); a {
	case RouteActionSendToAdmin, RouteActionStartProduction, RouteActionMarkShipped,
		RouteActionSendToManufacturer, RouteActionApproveForProduction,
		RouteActionRequestSample, RouteActionSendToClient,
		RouteActionApprove, RouteActionRequestRevision:
		return a, true
	default:
		return a, false
	}
}
