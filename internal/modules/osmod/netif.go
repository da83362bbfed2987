package osmod

import "net"

type netInterface struct {
	Name      string   `json:"name"`
	Addresses []string `json:"addresses"`
}

func netInterfaces() ([]netInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	out := make([]netInterface, 0, len(ifaces))
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		addrStrings := make([]string, 0, len(addrs))
		for _, a := range addrs {
			addrStrings = append(addrStrings, a.String())
		}
		out = append(out, netInterface{Name: iface.Name, Addresses: addrStrings})
	}
	return out, nil
}
