package config

// Sample is printed when the configuration is missing or incomplete
const Sample = `# ~/.hms/hms.yaml
inventory:
  path: /var/lib/hms/hms.db
logging:
  level: info      # debug, info, warn, error
  format: text     # text, json
publish:
  dns:
    Domain: example.org
    # name servers the zones are copied to
    Host: ns1.example.org,ns2.example.org
    # names published as NS records
    NSList: ns1.example.org,ns2.example.org
    Key: /root/.ssh/hms_ed25519
    User: root
    Port: 22
    FwdZoneDestName: example.org,/etc/bind/db.example.org
    # zonename,destpath[,wildcard] groups separated by ':'
    RevZoneDestName: 222.141.in-addr.arpa,/etc/bind/db.141.222,141.222.%:10.in-addr.arpa,/etc/bind/db.10
    # optional
    StaticFile: /etc/hms/static.zone
    StagingFile: /tmp/hms-zone.stage
    CheckCommand: named-checkzone
    KnownHosts: /root/.ssh/known_hosts
`
