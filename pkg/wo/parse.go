package wo

import "strings"

// ParseSiteList 解析 wo site list 输出，每行第一个字段为域名
func ParseSiteList(output string) []string {
	var domains []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		domain := fields[0]
		// 跳过表头和分隔线
		if !strings.Contains(domain, ".") || strings.HasPrefix(domain, "-") {
			continue
		}
		domains = append(domains, domain)
	}
	return domains
}

// ParseSiteInfo 从 wo site info 的文本输出中提取关键字段
func ParseSiteInfo(output string) *SiteInfo {
	info := &SiteInfo{
		Type:       "Unknown",
		PHPVersion: "8.2",
	}

	if strings.Contains(output, "WordPress") {
		info.Type = "WordPress"
	}

	for _, v := range []string{"7.4", "8.0", "8.1", "8.3", "8.2"} {
		if strings.Contains(output, "PHP "+v) {
			info.PHPVersion = v
			break
		}
	}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "ssl") && strings.Contains(lower, "enabled"):
			info.SSL = true
		case strings.Contains(lower, "letsencrypt") && strings.Contains(lower, "on"):
			info.SSL = true
		}
		if idx := strings.Index(line, "https://"); idx >= 0 && info.URL == "" {
			info.URL = strings.Fields(line[idx:])[0]
		}
	}

	return info
}
