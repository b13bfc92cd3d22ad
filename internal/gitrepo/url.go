package gitrepo

import "strings"

// MirrorDirName derives the local mirror directory name from the last path
// segment of a remote URL, enforcing a single .git suffix.
func MirrorDirName(remoteURL string) string {
	trimmed := strings.TrimRight(remoteURL, "/")
	name := trimmed[strings.LastIndex(trimmed, "/")+1:]
	if !strings.HasSuffix(name, ".git") {
		name += ".git"
	}
	return name
}

// WikiURL derives the wiki repository URL from the project repository URL.
// GitLab serves the wiki as a sibling repository with a .wiki.git suffix.
func WikiURL(repoURL string) string {
	if strings.HasSuffix(repoURL, ".git") {
		return strings.TrimSuffix(repoURL, ".git") + ".wiki.git"
	}
	return repoURL + ".wiki.git"
}

// InjectToken embeds the token as an oauth2 username/password pair in the
// authority of an HTTP(S) remote URL. SSH URLs are returned untouched.
func InjectToken(remoteURL, token string) string {
	if token == "" || !strings.HasPrefix(remoteURL, "http") {
		return remoteURL
	}
	scheme, rest, found := strings.Cut(remoteURL, "://")
	if !found {
		return remoteURL
	}
	return scheme + "://oauth2:" + token + "@" + rest
}
