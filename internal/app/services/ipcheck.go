package services

import (
	"fmt"
	"net"
)

type IPChecker interface {
	InTrustedSubnet(ip net.IP) bool
}

// NewIPChecker parses trustedSubnet in CIDR notation. Empty subnet trusts nobody.
func NewIPChecker(trustedSubnet string) (IPChecker, error) {
	checker := ipChecker{}
	if trustedSubnet == "" {
		return checker, nil
	}

	_, subnet, err := net.ParseCIDR(trustedSubnet)
	if err != nil {
		return nil, fmt.Errorf("failed to parse trusted subnet: %w", err)
	}
	checker.subnet = subnet

	return checker, nil
}

type ipChecker struct {
	subnet *net.IPNet
}

func (c ipChecker) InTrustedSubnet(ip net.IP) bool {
	if c.subnet == nil || ip == nil {
		return false
	}

	return c.subnet.Contains(ip)
}
