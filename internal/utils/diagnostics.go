package utils

import (
	"net"
	"strings"
)

// LocalAddresses lists the IPv4 addresses shop-floor terminals can use to
// reach this server. Link-local addresses are only reported when nothing
// routable exists.
func LocalAddresses() []string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil
	}

	var routable, linkLocal []string
	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() || ipnet.IP.To4() == nil {
			continue
		}
		ip := ipnet.IP.String()
		if strings.HasPrefix(ip, "169.254") {
			linkLocal = append(linkLocal, ip)
		} else {
			routable = append(routable, ip)
		}
	}

	if len(routable) > 0 {
		return routable
	}
	return linkLocal
}
