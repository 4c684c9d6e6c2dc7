package service

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"identity-console/internal/domain"
	"identity-console/internal/logger"

	"github.com/go-ldap/ldap/v3"
)

// ldapProvisioner creates inetOrgPerson entries over a real LDAP session.
type ldapProvisioner struct {
	dialTimeout time.Duration
}

func NewLDAPProvisioner(dialTimeout time.Duration) DirectoryProvisioner {
	if dialTimeout <= 0 {
		dialTimeout = 10 * time.Second
	}
	return &ldapProvisioner{dialTimeout: dialTimeout}
}

func (p *ldapProvisioner) Provision(ctx context.Context, identity *domain.Identity, settings *domain.DirectorySettings) error {
	if !strings.HasPrefix(settings.URL, "ldap://") && !strings.HasPrefix(settings.URL, "ldaps://") {
		return fmt.Errorf("invalid LDAP URL format, must start with ldap:// or ldaps://")
	}

	logger.ExternalServiceCall("directory", "provision", "url", settings.URL, "email", identity.Email)

	conn, err := ldap.DialURL(settings.URL, ldap.DialWithDialer(&net.Dialer{Timeout: p.dialTimeout}))
	if err != nil {
		err = fmt.Errorf("cannot connect to LDAP server at %s: %w", settings.URL, err)
		logger.ExternalServiceResult("directory", "provision", err)
		return err
	}
	defer conn.Close()

	if err := conn.Bind(settings.BindDN, settings.BindPassword); err != nil {
		err = fmt.Errorf("LDAP bind failed for %s: %w", settings.BindDN, err)
		logger.ExternalServiceResult("directory", "provision", err)
		return err
	}

	userDN := fmt.Sprintf("cn=%s,%s,%s", ldap.EscapeDN(identity.Email), settings.UserContainer, settings.BaseDN)
	givenName, surname := splitName(identity.FullName)

	add := ldap.NewAddRequest(userDN, nil)
	add.Attribute("objectClass", []string{"top", "person", "organizationalPerson", "inetOrgPerson"})
	add.Attribute("cn", []string{identity.Email})
	add.Attribute("sn", []string{surname})
	add.Attribute("givenName", []string{givenName})
	add.Attribute("mail", []string{identity.Email})
	add.Attribute("departmentNumber", []string{identity.Department})

	if err := conn.Add(add); err != nil {
		err = fmt.Errorf("failed to add directory entry %s: %w", userDN, err)
		logger.ExternalServiceResult("directory", "provision", err)
		return err
	}

	logger.ExternalServiceResult("directory", "provision", nil, "dn", userDN)
	return nil
}

func splitName(fullName string) (givenName, surname string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	givenName = parts[0]
	surname = parts[len(parts)-1]
	return givenName, surname
}

// noopProvisioner is used when directory integration is disabled and in
// tests.
type noopProvisioner struct{}

func NewNoopProvisioner() DirectoryProvisioner {
	return noopProvisioner{}
}

func (noopProvisioner) Provision(ctx context.Context, identity *domain.Identity, settings *domain.DirectorySettings) error {
	logger.Debug("Directory provisioning skipped (noop)", "email", identity.Email)
	return nil
}
