package netutil

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// SelectBindAddr picks an available bind address based on preferred and fallback list.
func SelectBindAddr(preferred string, candidates []string, autoFallback bool) (string, error) {
	if preferred != "" {
		ok, err := IsAddrAvailable(preferred)
		if err != nil {
			return "", err
		}
		if ok {
			return preferred, nil
		}
		if !autoFallback {
			return "", fmt.Errorf("preferred bind address in use: %s", preferred)
		}
	}

	for _, addr := range candidates {
		ok, err := IsAddrAvailable(addr)
		if err != nil {
			return "", err
		}
		if ok {
			return addr, nil
		}
	}

	return "", errors.New("no available bind addresses")
}

// PortCandidates derives count fallback addresses from preferred by walking
// up the port number on the same host. A malformed address yields nil and
// leaves SelectBindAddr with just the preferred choice.
func PortCandidates(preferred string, count int) []string {
	host, portStr, err := net.SplitHostPort(preferred)
	if err != nil {
		return nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil
	}
	var out []string
	for i := 1; i <= count && port+i <= 65535; i++ {
		out = append(out, net.JoinHostPort(host, strconv.Itoa(port+i)))
	}
	return out
}

// IsAddrAvailable returns true when an address can be listened on.
func IsAddrAvailable(addr string) (bool, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return false, nil
	}
	if closeErr := ln.Close(); closeErr != nil {
		return false, closeErr
	}
	return true, nil
}
