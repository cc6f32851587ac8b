package siem

// DashboardTemplates feed the SOC console view.
var DashboardTemplates = []Template{
	{SeverityHigh, "ICS Anomaly", "SCADA-NET-01", StatusBlocked, "Unauthorized access attempt to industrial control system"},
	{SeverityMedium, "Patch Required", "WIN-SRV-042", StatusMonitored, "Critical security patch missing - CVE-2025-0001"},
	{SeverityLow, "Splunk Alert", "SIEM-01", StatusLogged, "Unusual login pattern detected via Splunk correlation"},
	{SeverityHigh, "Firewall Breach", "FW-ZONE-3", StatusBlocked, "Attempted bypass of firewall rules on OT network"},
	{SeverityInfo, "SVA Complete", "Security Team", StatusAllowed, "Site vulnerability assessment completed successfully"},
	{SeverityMedium, "Certificate Expiry", "PKI-Server", StatusMonitored, "SSL certificate expiring in 7 days"},
	{SeverityHigh, "Malware Detected", "EDR-Client-15", StatusBlocked, "Ransomware variant quarantined by endpoint protection"},
	{SeverityLow, "Access Review", "IAM-System", StatusLogged, "Privileged access review required for 3 accounts"},
}

// ToolsTemplates feed the compact tools view.
var ToolsTemplates = []Template{
	{SeverityHigh, "ICS Anomaly", "SCADA-NET-01", StatusBlocked, "Unauthorized OT network access blocked"},
	{SeverityMedium, "Splunk Alert", "SIEM-01", StatusMonitored, "Unusual pattern detected via correlation"},
	{SeverityLow, "Patch Scan", "WIN-SRV-042", StatusLogged, "Vulnerability scan completed"},
	{SeverityHigh, "Firewall Block", "FW-ZONE-3", StatusBlocked, "Malicious traffic prevented"},
	{SeverityInfo, "SVA Report", "Security Team", StatusAllowed, "Site assessment completed"},
	{SeverityMedium, "Certificate Alert", "PKI-Server", StatusMonitored, "Certificate expiring soon"},
}
