package hashicorp_vault

import (
	"log"
	"strings"

	vault "github.com/hashicorp/vault/api"
)

type VaultServer struct {
	Address string
	Token   string
	Prefix  string
	Client  *vault.Client
}

func (v *VaultServer) Setup() *vault.Client {
	config := vault.DefaultConfig()
	config.Address = v.Address
	client, err := vault.NewClient(config)
	if err != nil {
		log.Fatalf("Unable to initialize Vault client: %v", err)
	}
	client.SetToken(v.Token)
	v.Client = client
	return client
}

// VaultMapString replaces every Prefix+key occurrence in text with the value
// stored under path in the KV secret engine. Text without the prefix is
// returned unchanged without contacting the server.
func (v *VaultServer) VaultMapString(path string, text string) string {
	if !strings.Contains(text, v.Prefix) {
		return text
	}
	mapString := text
	secret, err := v.Client.Logical().Read(path)
	if err != nil {
		log.Fatalf("Unable to read credentials from Vault Mapping: %v", err)
	}
	if secret == nil {
		log.Fatalf("Vault Mapping path %s not found", path)
	}
	data := secret.Data["data"].(map[string]any)
	for key, value := range data {
		placeholder := v.Prefix + key
		mapString = strings.Replace(mapString, placeholder, value.(string), -1)
	}
	return mapString
}
